package errors

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Collector gathers the errors of one build batch so that every failing
// document is reported before the build aborts.
type Collector struct {
	errs  []error
	mutex sync.RWMutex
}

// NewCollector creates a new error collector.
func NewCollector() *Collector {
	return &Collector{errs: make([]error, 0)}
}

// Add records an error; nil is ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errs = append(c.errs, err)
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]error, len(c.errs))
	copy(result, c.errs)
	return result
}

// HasErrors returns true if there are any errors.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errs) > 0
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errs)
}

// Err returns nil when empty, otherwise a *BuildFailure holding every error.
func (c *Collector) Err() error {
	errs := c.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &BuildFailure{Errors: errs}
}

// BuildFailure is returned when a build batch had at least one error.
type BuildFailure struct {
	Errors []error
}

// Error implements the error interface.
func (bf *BuildFailure) Error() string {
	if len(bf.Errors) == 1 {
		return "build failed: " + bf.Errors[0].Error()
	}

	lines := make([]string, 0, len(bf.Errors))
	for _, err := range bf.Errors {
		lines = append(lines, err.Error())
	}
	sort.Strings(lines)

	return fmt.Sprintf("build failed with %d errors:\n%s", len(bf.Errors), strings.Join(lines, "\n"))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (bf *BuildFailure) Unwrap() []error {
	return bf.Errors
}
