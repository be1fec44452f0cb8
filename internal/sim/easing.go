package sim

// InterpSqInv eases out: 1-(x-1)^2, with x clamped to [0, 1].
func InterpSqInv(x float32) float32 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	y := x - 1
	return -y*y + 1
}

// InterpSq eases in: x^2, with x clamped to [0, 1].
func InterpSq(x float32) float32 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x * x
}

// alphaByte converts a [0, 1] factor to a color channel, saturating.
func alphaByte(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f * 255)
}
