package logging

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

func sortedKeys(fields log.Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
