package common

// Fixed keys in the metadata key-value store. The names mirror the keys the
// web client used in localStorage so an exported backup stays readable.
const (
	KeyUserSession      = "userSession"
	KeyDriveToken       = "driveToken"
	KeyLastSync         = "lastDriveSync"
	KeySampleDataLoaded = "sampleDataLoaded"
)

// RemoteFolderName is the well-known folder that holds all synced patrons in
// the remote object store.
const RemoteFolderName = "CrochetPatterns"
