package tiler

import "math"

func log2(v float32) float32   { return float32(math.Log2(float64(v))) }
func roundf(v float32) float32 { return float32(math.Round(float64(v))) }
func pow2(n int) float32       { return float32(math.Exp2(float64(n))) }

func intFloor(v float64) int { return int(math.Floor(v)) }
func intCeil(v float64) int  { return int(math.Ceil(v)) }
