package plane

import "fmt"

// Complex is a point on the complex plane. It is passed by value and never shared.
type Complex struct {
	Re float64 `yaml:"re" json:"re"`
	Im float64 `yaml:"im" json:"im"`
}

func New(re float64, im float64) Complex {
	return Complex{Re: re, Im: im}
}

// Id returns the additive identity, the starting iterate of the Mandelbrot map.
func Id() Complex {
	return Complex{}
}

func (z Complex) AbsValueSquared() float64 {
	return z.Re*z.Re + z.Im*z.Im
}

// MandelbrotStep returns z² + c. The real part is computed as (re-im)(re+im) to save a multiply.
func (z Complex) MandelbrotStep(c Complex) Complex {
	return Complex{
		Re: (z.Re-z.Im)*(z.Re+z.Im) + c.Re,
		Im: 2*z.Re*z.Im + c.Im,
	}
}

// Inverse returns 1/c. The inverse of the origin has infinite or NaN parts.
func (z Complex) Inverse() Complex {
	absSquared := z.AbsValueSquared()
	return Complex{Re: z.Re / absSquared, Im: -z.Im / absSquared}
}

func (z Complex) String() string {
	return fmt.Sprintf("%g + %gi", z.Re, z.Im)
}
