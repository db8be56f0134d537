package indexing

import "bytes"

// sniffLen is the prefix inspected by IsBinaryContent.
const sniffLen = 512

var binarySignatures = [][]byte{
	{0x1F, 0x8B},                         // gzip
	{0x50, 0x4B, 0x03, 0x04},             // zip
	{0x89, 0x50, 0x4E, 0x47},             // png
	{0x25, 0x50, 0x44, 0x46},             // pdf
	{0x7F, 0x45, 0x4C, 0x46},             // ELF
	{0xCA, 0xFE, 0xBA, 0xBE},             // Mach-O universal
	{0xCF, 0xFA, 0xED, 0xFE},             // Mach-O 64-bit
	{0x62, 0x70, 0x6C, 0x69, 0x73, 0x74}, // binary plist
}

// IsBinaryContent reports whether content looks like something other than
// source text: a known signature, NUL bytes, or mostly control characters.
func IsBinaryContent(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	sample := content[:min(len(content), sniffLen)]

	for _, sig := range binarySignatures {
		if bytes.HasPrefix(sample, sig) {
			return true
		}
	}

	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		// bytes >= 0x80 are left alone so UTF-8 text is never flagged
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonPrintable++
		}
	}
	return nonPrintable > len(sample)*30/100
}
