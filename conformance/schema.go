// Package conformance expresses the end-to-end scenarios this runtime
// is judged against as YAML scripts, one task per goroutine-backed
// task and one line per scheduling operation, grounded on barn's
// conformance schema.go/loader.go/runner.go: a YAML test suite loaded
// from testdata, each case driving a small interpreter instead of a
// MOO evaluator, and an Expect block checked against what actually
// happened rather than against a MOO return value.
package conformance

// Suite is a single YAML test file: a named group of Cases.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Tests       []Case `yaml:"tests"`
}

// Case is one scenario: a set of concurrently spawned tasks, each
// with its own op script, plus the outcome expected once every task
// has been joined.
type Case struct {
	Name   string     `yaml:"name"`
	Skip   string     `yaml:"skip,omitempty"`
	Tasks  []TaskSpec `yaml:"tasks"`
	Expect Expect     `yaml:"expect"`
}

// TaskSpec is one task's op script. Ops are small textual
// instructions executed in order by the interpreter in runner.go:
//
//	lock NAME             mutex NAME's Lock
//	unlock NAME           mutex NAME's Unlock
//	sleep DURATION        e.g. "sleep 10ms"
//	wait NAME             event NAME's Wait (no deadline)
//	waittimeout NAME DUR  event NAME's WaitTimeout
//	set NAME              event NAME's Set
//	join TASK             join the task named TASK
//	cancel TASK           cancel_wait on the task named TASK
//	yield                 task_yield
//	record LABEL          append LABEL to the shared order log
//	recordresult LABEL    append "LABEL=N" where N is the most
//	                      recent suspending op's result
type TaskSpec struct {
	Name string   `yaml:"name"`
	Ops  []string `yaml:"ops"`
}

// Expect is the assertion made once every task in a Case has
// finished: the shared order log, built up by record/recordresult
// ops, must equal Order exactly.
type Expect struct {
	Order []string `yaml:"order"`
}
