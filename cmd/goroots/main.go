// Command goroots finds the real roots of a single-variable function.
//
//	goroots scan --expr "x^3 - x - 2" --start 0 --end 4 --step 0.1 --method 1
package main

func main() {
	Execute()
}
