package engine

// JobSource is an interface that defines the contract for job providers such
// as files of programs.
type JobSource interface {
	Name() string
	Read() ([]Job, error)
}
