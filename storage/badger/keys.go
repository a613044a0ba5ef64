package badger

import "fmt"

// Key prefixes for different data types
const (
	historyPrefix = "srchist"
)

// DefaultNamespace is the history namespace used when none is given.
const DefaultNamespace = "default"

// makeHistoryKey generates the key holding the history list of a namespace.
// Format: prefix:namespace
func makeHistoryKey(namespace string) []byte {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return []byte(fmt.Sprintf("%s:%s", historyPrefix, namespace))
}
