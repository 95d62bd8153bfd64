package utils

import "github.com/denisbrodbeck/machineid"

// HWID is a hashed, app-scoped machine identifier. Falls back to "unknown"
// on platforms where the machine id is unavailable (e.g. minimal containers).
var HWID = "unknown"

func init() {
	if id, err := machineid.ProtectedID("stapply-agent"); err == nil {
		HWID = id
	}
}
