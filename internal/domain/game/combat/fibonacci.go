package combat

// FibonacciTerms is the size of the monster health bonus table
const FibonacciTerms = 40

var fibonacci = func() [FibonacciTerms]int {
	var f [FibonacciTerms]int
	f[0], f[1] = 1, 1
	for i := 2; i < FibonacciTerms; i++ {
		f[i] = f[i-1] + f[i-2]
	}
	return f
}()

// Fibonacci returns term n, clamped to the table
func Fibonacci(n int) int {
	return fibonacci[min(max(n, 0), FibonacciTerms-1)]
}

// FibIndex is the position of the first term greater than n, at least 1.
// Values past the table return the table size.
func FibIndex(n float64) int {
	for i, v := range fibonacci {
		if float64(v) > n {
			return max(i, 1)
		}
	}
	return FibonacciTerms
}
