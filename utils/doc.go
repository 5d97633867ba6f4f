// Package utils holds the index, element type and boundary name helpers
// shared by the numerical packages.
//
// Building with cgo and the netlib tag (go build -tags netlib) routes gonum's
// dense BLAS through OpenBLAS; BLASBackend reports which one is active.
package utils

// BLASBackend names the BLAS implementation behind gonum/mat
var BLASBackend = "gonum"
