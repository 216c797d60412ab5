package returns

// Amount bucket labels.
const (
	AmountSmall  = "small"
	AmountMedium = "medium"
	AmountLarge  = "large"
)

// Delay bucket labels, in reporting order.
var DelayBuckets = []string{"0-15d", "16-30d", "31-45d", "45d+"}

// AmountBuckets lists the amount bucket labels in reporting order.
var AmountBuckets = []string{AmountSmall, AmountMedium, AmountLarge}

// AmountBucket classifies a trade by the midpoint of its dollar range.
// Total: every (low, high) pair maps to a bucket.
func AmountBucket(low, high int64) string {
	mid := float64(low+high) / 2
	switch {
	case mid <= 15000:
		return AmountSmall
	case mid <= 100000:
		return AmountMedium
	default:
		return AmountLarge
	}
}

// DelayBucket classifies a filing by how many days past the statutory
// deadline it was disclosed.
func DelayBucket(daysLate int) string {
	switch {
	case daysLate <= 15:
		return DelayBuckets[0]
	case daysLate <= 30:
		return DelayBuckets[1]
	case daysLate <= 45:
		return DelayBuckets[2]
	default:
		return DelayBuckets[3]
	}
}
