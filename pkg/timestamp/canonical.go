package timestamp

// Canonical renders p as "YYYY-MM-DD HH:MM:SS".
func (p Packed) Canonical() [CanonicalLen]byte {
	var out [CanonicalLen]byte
	year := int(p>>shiftYear) % 10000
	out[0] = byte('0' + year/1000)
	out[1] = byte('0' + year/100%10)
	out[2] = byte('0' + year/10%10)
	out[3] = byte('0' + year%10)
	out[4] = '-'
	put2(out[5:], int(p>>shiftMonth&0xff))
	out[7] = '-'
	put2(out[8:], int(p>>shiftDay&0xff))
	out[10] = ' '
	put2(out[11:], int(p>>shiftHour&0xff))
	out[13] = ':'
	put2(out[14:], int(p>>shiftMinute&0xff))
	out[16] = ':'
	put2(out[17:], int(p&0xff))
	return out
}

// AppendCanonical appends the canonical rendering of p to dst.
func (p Packed) AppendCanonical(dst []byte) []byte {
	c := p.Canonical()
	return append(dst, c[:]...)
}

func put2(dst []byte, v int) {
	dst[0] = byte('0' + v/10%10)
	dst[1] = byte('0' + v%10)
}
