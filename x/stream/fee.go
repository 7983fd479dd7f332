package stream

// bpsDenominator is the number of basis points in a whole.
const bpsDenominator = 10000

// FeeAmount returns amount * bps / 10000, truncated toward zero. The
// computation does not overflow for any non negative amount as long as
// bps does not exceed MaxFeeRateBps.
func FeeAmount(amount int64, bps uint32) int64 {
	b := int64(bps)
	return (amount/bpsDenominator)*b + (amount%bpsDenominator)*b/bpsDenominator
}

// RatePerSecond returns the part of the deposit that accrues every second.
// The remainder of the division is never streamed per second but it stays
// part of the deposit.
func RatePerSecond(net int64, duration uint64) int64 {
	return int64(uint64(net) / duration)
}
