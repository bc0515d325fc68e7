package commands

// CheckBinary exports checkBinary for testing.
var CheckBinary = checkBinary //nolint:gochecknoglobals // test export

// CheckFile exports checkFile for testing.
var CheckFile = checkFile //nolint:gochecknoglobals // test export

// CheckDir exports checkDir for testing.
var CheckDir = checkDir //nolint:gochecknoglobals // test export

// ResolveTargetMajor exports resolveTargetMajor for testing.
var ResolveTargetMajor = resolveTargetMajor //nolint:gochecknoglobals // test export
