// Package quadrature enumerates quadrature points and weights on the
// reference interval [-1,1], the reference square [-1,1]^2 and the unit
// triangle.
package quadrature

import (
	"fmt"
)

// Gauss-Legendre abscissae and weights on [-1,1], 1 to 10 points, ascending.
// Each rule integrates polynomials up to degree 2n-1 exactly.
var gaussTable = [11][][2]float64{
	1: {
		{0, 2},
	},
	2: {
		{-0.5773502691896257645, 1},
		{0.5773502691896257645, 1},
	},
	3: {
		{-0.7745966692414833770, 0.5555555555555555556},
		{0, 0.8888888888888888889},
		{0.7745966692414833770, 0.5555555555555555556},
	},
	4: {
		{-0.8611363115940525752, 0.3478548451374538574},
		{-0.3399810435848562648, 0.6521451548625461426},
		{0.3399810435848562648, 0.6521451548625461426},
		{0.8611363115940525752, 0.3478548451374538574},
	},
	5: {
		{-0.9061798459386639928, 0.2369268850561890875},
		{-0.5384693101056830910, 0.4786286704993664680},
		{0, 0.5688888888888888889},
		{0.5384693101056830910, 0.4786286704993664680},
		{0.9061798459386639928, 0.2369268850561890875},
	},
	6: {
		{-0.9324695142031520278, 0.1713244923791703450},
		{-0.6612093864662645136, 0.3607615730481386076},
		{-0.2386191860831969086, 0.4679139345726910474},
		{0.2386191860831969086, 0.4679139345726910474},
		{0.6612093864662645136, 0.3607615730481386076},
		{0.9324695142031520278, 0.1713244923791703450},
	},
	7: {
		{-0.9491079123427585245, 0.1294849661688696933},
		{-0.7415311855993944399, 0.2797053914892766679},
		{-0.4058451513773971669, 0.3818300505051189449},
		{0, 0.4179591836734693878},
		{0.4058451513773971669, 0.3818300505051189449},
		{0.7415311855993944399, 0.2797053914892766679},
		{0.9491079123427585245, 0.1294849661688696933},
	},
	8: {
		{-0.9602898564975362317, 0.1012285362903762591},
		{-0.7966664774136267396, 0.2223810344533744706},
		{-0.5255324099163289858, 0.3137066458778872873},
		{-0.1834346424956498049, 0.3626837833783619830},
		{0.1834346424956498049, 0.3626837833783619830},
		{0.5255324099163289858, 0.3137066458778872873},
		{0.7966664774136267396, 0.2223810344533744706},
		{0.9602898564975362317, 0.1012285362903762591},
	},
	9: {
		{-0.9681602395076260898, 0.0812743883615744120},
		{-0.8360311073266357943, 0.1806481606948574041},
		{-0.6133714327005903973, 0.2606106964029354623},
		{-0.3242534234038089290, 0.3123470770400028401},
		{0, 0.3302393550012597632},
		{0.3242534234038089290, 0.3123470770400028401},
		{0.6133714327005903973, 0.2606106964029354623},
		{0.8360311073266357943, 0.1806481606948574041},
		{0.9681602395076260898, 0.0812743883615744120},
	},
	10: {
		{-0.9739065285171717200, 0.0666713443086881376},
		{-0.8650633666889845107, 0.1494513491505805932},
		{-0.6794095682990244062, 0.2190863625159820440},
		{-0.4333953941292471908, 0.2692667193099963551},
		{-0.1488743389816312108, 0.2955242247147528702},
		{0.1488743389816312108, 0.2955242247147528702},
		{0.4333953941292471908, 0.2692667193099963551},
		{0.6794095682990244062, 0.2190863625159820440},
		{0.8650633666889845107, 0.1494513491505805932},
		{0.9739065285171717200, 0.0666713443086881376},
	},
}

// MaxGaussPoints is the largest tabulated Gauss-Legendre rule
const MaxGaussPoints = 10

func checkGauss(npts int) {
	if npts < 1 || npts > MaxGaussPoints {
		panic(fmt.Errorf("no Gauss-Legendre rule with %d points, have 1 to %d", npts, MaxGaussPoints))
	}
}

// GaussPoint returns abscissa and weight i (0 based) of the npts point rule.
// Asking for an untabulated rule is a programming error and panics.
func GaussPoint(npts, i int) (x, w float64) {
	checkGauss(npts)
	p := gaussTable[npts][i]
	return p[0], p[1]
}
