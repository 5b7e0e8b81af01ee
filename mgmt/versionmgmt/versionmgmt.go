// Package versionmgmt reports build version over JSON-RPC.
package versionmgmt

import (
	"github.com/usnistgov/nshsfc/core/version"
)

// VersionMgmt is the "Version" service.
type VersionMgmt struct{}

// Get returns version information of the running binary.
func (VersionMgmt) Get(args struct{}, reply *version.Version) error {
	*reply = version.V
	return nil
}
