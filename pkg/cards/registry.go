package cards

import "sync"

// The classifier registry lets views pick a classification strategy by name
// (config-driven) and lets tests register deterministic stubs.

var (
	mu          sync.RWMutex
	classifiers = map[string]Classifier{}
)

func init() {
	Register("keyword", KeywordClassifier)
}

// Register adds a classifier under the given name, replacing any previous
// registration.
func Register(name string, c Classifier) {
	mu.Lock()
	classifiers[name] = c
	mu.Unlock()
}

// Get returns the classifier for name if registered.
func Get(name string) (Classifier, bool) {
	mu.RLock()
	c, ok := classifiers[name]
	mu.RUnlock()
	return c, ok
}

// Has reports whether a classifier is registered.
func Has(name string) bool {
	mu.RLock()
	_, ok := classifiers[name]
	mu.RUnlock()
	return ok
}

// Names returns a snapshot of registered classifier names.
func Names() []string {
	mu.RLock()
	out := make([]string, 0, len(classifiers))
	for k := range classifiers {
		out = append(out, k)
	}
	mu.RUnlock()
	return out
}
