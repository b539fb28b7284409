package fixedmath

import "math/big"

var one = big.NewInt(1)

func mulBig(a, b int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
}

func gcdBig(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Set(a), new(big.Int).Set(b))
}

func cmpMax(v *big.Int) int {
	return v.Cmp(maxShareSupplyBig)
}
