package domain

// Mode identifies a match mode. The four rating buckets double as the
// 1v1/5v5 normal and ranked modes; arranged-team and ARAM matches are
// rated on the ng5v5 bucket.
type Mode string

const (
	ModeNormal1v1 Mode = "ng1v1"
	ModeNormal5v5 Mode = "ng5v5"
	ModeRanked1v1 Mode = "rk1v1"
	ModeRanked5v5 Mode = "rk5v5"
	ModeArranged  Mode = "at"
	ModeARAM      Mode = "aram"
)

var AllModes = []Mode{ModeNormal1v1, ModeNormal5v5, ModeRanked1v1, ModeRanked5v5, ModeArranged, ModeARAM}

func (m Mode) Valid() bool {
	switch m {
	case ModeNormal1v1, ModeNormal5v5, ModeRanked1v1, ModeRanked5v5, ModeArranged, ModeARAM:
		return true
	}
	return false
}

// Bucket returns the rating bucket a mode is matched and settled on.
type Bucket string

const (
	BucketNg1v1 Bucket = "ng1v1"
	BucketNg5v5 Bucket = "ng5v5"
	BucketRk1v1 Bucket = "rk1v1"
	BucketRk5v5 Bucket = "rk5v5"
)

var AllBuckets = []Bucket{BucketNg1v1, BucketNg5v5, BucketRk1v1, BucketRk5v5}

func (m Mode) Bucket() Bucket {
	switch m {
	case ModeNormal1v1:
		return BucketNg1v1
	case ModeRanked1v1:
		return BucketRk1v1
	case ModeRanked5v5:
		return BucketRk5v5
	default:
		return BucketNg5v5
	}
}

// DefaultTeamSize returns the number of users per side for a mode.
func (m Mode) DefaultTeamSize() int {
	switch m {
	case ModeNormal1v1, ModeRanked1v1:
		return 1
	default:
		return 5
	}
}
