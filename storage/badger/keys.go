package badger

import (
	"strings"

	"github.com/paperreader/paperbot/core"
)

// Key prefixes for different data types
const (
	paperRecordPrefix = "paprec"
	paperTopicPrefix  = "paptop"
	paperStatusPrefix = "papstat"
	fingerprintPrefix = "fngprt"
)

// makePaperKey generates a key for a paper record by id.
func makePaperKey(id string) []byte {
	return []byte(paperRecordPrefix + ":" + id)
}

// makeTopicKey generates a key for the topic index.
// Format: prefix:topic
func makeTopicKey(topic string) []byte {
	return []byte(paperTopicPrefix + ":" + topic)
}

// makeStatusKey generates a composite key for the status index.
// Format: prefix:status:id, so a prefix scan on a status yields ids in
// lexicographic order.
func makeStatusKey(status core.Status, id string) []byte {
	return []byte(paperStatusPrefix + ":" + string(status) + ":" + id)
}

// makeStatusScanPrefix generates the scan prefix for all papers in a status.
func makeStatusScanPrefix(status core.Status) []byte {
	return []byte(paperStatusPrefix + ":" + string(status) + ":")
}

// paperIDFromStatusKey extracts the paper id from a status index key.
func paperIDFromStatusKey(key []byte) string {
	parts := strings.SplitN(string(key), ":", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}

// makeFingerprintKey generates a key for a fetch-window fingerprint.
func makeFingerprintKey(window string) []byte {
	return []byte(fingerprintPrefix + ":" + window)
}
