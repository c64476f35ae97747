package probemap

// Returns the smallest prime greater than or equal to `n`.
// Values below 2 yield 2.
func NextPrime(n int) int {
	if n <= 2 {
		return 2
	}

	if n%2 == 0 {
		n++
	}

	for !IsPrime(n) {
		n += 2
	}

	return n
}

// Reports whether `n` is prime, using 6k±1 trial division.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}

	if n <= 3 {
		return true
	}

	if n%2 == 0 || n%3 == 0 {
		return false
	}

	for i := 5; i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}

	return true
}

// Estimates the capacity needed to hold `n` live keys without rehashing.
func CapacityFor(n int) int {
	if n <= 0 {
		return NextPrime(DefaultCapacity)
	}

	// n/capacity must stay below the load factor after the last insert.
	return NextPrime(n*loadFactorDen/loadFactorNum + 1)
}
