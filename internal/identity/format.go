package identity

// ValidateFormat reports whether id is a well-formed TCKN: eleven ASCII
// digits, a non-zero first digit and both checksum digits matching.
func ValidateFormat(id string) bool {
	if len(id) != 11 {
		return false
	}

	var d [11]int
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		d[i] = int(c - '0')
	}

	if d[0] == 0 {
		return false
	}

	oddSum := d[0] + d[2] + d[4] + d[6] + d[8]
	evenSum := d[1] + d[3] + d[5] + d[7]

	tenth := ((oddSum*7-evenSum)%10 + 10) % 10
	if tenth != d[9] {
		return false
	}

	total := 0
	for i := 0; i < 10; i++ {
		total += d[i]
	}

	return total%10 == d[10]
}
