package composer

// ParseAuditOutput exports parseAuditOutput for testing.
var ParseAuditOutput = parseAuditOutput //nolint:gochecknoglobals // test export

// NormalizeReportedVersion exports normalizeReportedVersion for testing.
var NormalizeReportedVersion = normalizeReportedVersion //nolint:gochecknoglobals // test export
