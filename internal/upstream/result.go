// Package upstream discovers public upstream equivalents for private and
// internal container image references.
package upstream

// Method identifies which discovery strategy produced a result.
type Method string

const (
	// MethodManual means the image was found in the manual mappings table.
	MethodManual Method = "manual"

	// MethodRegistryStrip means a private registry prefix was stripped and
	// the remaining path was verified against Docker Hub.
	MethodRegistryStrip Method = "registry_strip"

	// MethodRegistryStripUnverified means the registry prefix was stripped
	// but no variant could be verified; the stripped path is a best guess.
	MethodRegistryStripUnverified Method = "registry_strip_unverified"

	// MethodCommonRegistry means the image was found in one of the
	// well-known public registries.
	MethodCommonRegistry Method = "common_registry"

	// MethodBaseExtract means a common base-software name was extracted
	// from the image name and verified on Docker Hub.
	MethodBaseExtract Method = "base_extract"

	// MethodIronBankDirect means the image is an accessible Iron Bank
	// image and should be used directly, not substituted.
	MethodIronBankDirect Method = "iron_bank_direct"

	// MethodNone means no strategy produced a qualifying result.
	MethodNone Method = "none"
)

// Result is the outcome of a single upstream discovery attempt. It is a
// value: produced once, never mutated.
type Result struct {
	// Upstream is the discovered public image reference, empty when no
	// upstream was found.
	Upstream string

	// Confidence scores the result in [0, 1]. Each strategy has a fixed
	// ceiling by design; scores are not computed from data.
	Confidence float64

	// Method is the strategy that produced the result.
	Method Method
}

// Found reports whether the result carries an upstream image.
func (r Result) Found() bool {
	return r.Upstream != ""
}
