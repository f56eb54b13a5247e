package bfv

var (
	// ParamsLogN10 is a parameters set with 2^10 ring degree and 27-bit ciphertext modulus.
	ParamsLogN10 = ParametersLiteral{
		LogN:         10,
		LogQ:         []int{27},
		PlainModulus: 1024,
	}

	// ParamsLogN11 is a parameters set with 2^11 ring degree and 54-bit ciphertext modulus.
	ParamsLogN11 = ParametersLiteral{
		LogN:         11,
		LogQ:         []int{54},
		PlainModulus: 1024,
	}

	// ParamsLogN12 is a parameters set with 2^12 ring degree and 72-bit ciphertext modulus.
	ParamsLogN12 = ParametersLiteral{
		LogN:         12,
		LogQ:         []int{36, 36, 37},
		PlainModulus: 1024,
	}

	// ParamsLogN13 is a parameters set with 2^13 ring degree and 174-bit ciphertext modulus.
	ParamsLogN13 = ParametersLiteral{
		LogN:         13,
		LogQ:         []int{43, 43, 44, 44, 44},
		PlainModulus: 1024,
	}
)
