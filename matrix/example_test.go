package matrix_test

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/densela/matrix"
)

// ExampleDense_MulAssign multiplies a 2×3 matrix by a 3×4 matrix in place.
func ExampleDense_MulAssign() {
	a, _ := matrix.NewDenseFrom(2, 3, []float64{
		3, 4, 2,
		9, 2, 6,
	})
	b, _ := matrix.NewDenseFrom(3, 4, []float64{
		13, 9, 7, 15,
		8, 7, 4, 6,
		6, 4, 0, 3,
	})

	if _, err := a.MulAssign(b); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(a)

	// Output:
	// [83, 63, 37, 75]
	// [169, 119, 71, 165]
}

// ExampleDense_AddAssign adds two matrices in place and chains a second addition.
func ExampleDense_AddAssign() {
	a, _ := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	b, _ := matrix.NewDenseFrom(2, 2, []float64{10, 20, 30, 40})

	a, _ = a.AddAssign(b)
	a, _ = a.AddAssign(a)
	fmt.Print(a)

	// Output:
	// [22, 44]
	// [66, 88]
}

// ExampleDense_Describe prints every element with its coordinate.
func ExampleDense_Describe() {
	m, _ := matrix.NewDenseFrom(1, 2, []float64{0.5, -2})
	fmt.Print(m.Describe())

	// Output:
	// Dense 1x2
	// (0,0) = 0.5
	// (0,1) = -2
}

// ExampleDense_MulAssign_mismatch shows that a failed product leaves the receiver alone.
func ExampleDense_MulAssign_mismatch() {
	a, _ := matrix.NewDense(2, 3)
	b, _ := matrix.NewDense(4, 5)

	_, err := a.MulAssign(b)
	fmt.Println(errors.Is(err, matrix.ErrDimensionMismatch))
	fmt.Println(a.Rows(), a.Cols())

	_, err = a.At(a.Rows(), 0)
	fmt.Println(errors.Is(err, matrix.ErrIndexOutOfRange))

	// Output:
	// true
	// 2 3
	// true
}
