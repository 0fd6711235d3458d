package testutil

// BinaryStrings returns every binary string of length minLen..maxLen, shortest
// first and lexicographic ('0' < '1') within a length.
//
//	BinaryStrings(0, 2) // "", "0", "1", "00", "01", "10", "11"
func BinaryStrings(minLen, maxLen int) []string {
	var out []string
	for n := max(minLen, 0); n <= maxLen; n++ {
		for v := 0; v < 1<<n; v++ {
			b := make([]byte, n)
			for i := 0; i < n; i++ {
				if v&(1<<(n-1-i)) != 0 {
					b[i] = '1'
				} else {
					b[i] = '0'
				}
			}
			out = append(out, string(b))
		}
	}
	return out
}

// IsPalindrome reports whether s reads the same in both directions.
func IsPalindrome(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}

// DivisibleBy3 reports whether the binary number s is a multiple of three.
// The empty string is zero. Leading zeros are allowed and arbitrary length is
// handled by folding the remainder.
func DivisibleBy3(s string) bool {
	r := 0
	for i := 0; i < len(s); i++ {
		r = (2*r + int(s[i]-'0')) % 3
	}
	return r == 0
}
