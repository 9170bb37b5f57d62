package usecase

import "github.com/ghmirror/ghmirror/pkg/domain/model"

// SetSubmitHookForTest replaces job submission with f so tests can record
// what a reconciliation would enqueue without running it.
func (x *UseCase) SetSubmitHookForTest(f func(job model.Job) error) {
	x.submit = f
}
