package quota

const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
)

// Limits holds the fixed per-plan defaults used when a subscription carries no
// explicit override.
type Limits struct {
	FreeMaxUpload  int64
	LiteMaxUpload  int64
	ProMaxUpload   int64
	DefaultStorage int64
}

func DefaultLimits() Limits {
	return Limits{
		FreeMaxUpload:  200 * MiB,
		LiteMaxUpload:  2 * GiB,
		ProMaxUpload:   5 * GiB,
		DefaultStorage: 500 * MiB,
	}
}
