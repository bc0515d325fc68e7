package patching

// PatchFileName exports patchFileName for testing.
var PatchFileName = patchFileName //nolint:gochecknoglobals // test export
