package ports

import "progeval/domain/study"

// DatasetReader loads a study dataset from some external source
type DatasetReader interface {
	Read() (*study.Dataset, error)
}
