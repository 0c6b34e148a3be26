package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	exif "github.com/dsoprea/go-exif/v3"
)

// Metadata is the ancillary metadata container attached to a Buffer.
// It holds everything in an image file that is not pixel data: the
// structured blocks the sanitizer must remove before re-encoding.
type Metadata struct {
	// EXIF is the raw EXIF/TIFF block, nil if absent.
	EXIF []byte

	// ICCProfile is the embedded color profile, nil if absent.
	ICCProfile []byte

	// XMP is the raw XMP packet, nil if absent.
	XMP []byte

	// Text holds textual chunks by keyword (PNG tEXt/zTXt/iTXt keywords,
	// JPEG comments under "comment").
	Text map[string]string

	// Chunks holds application-specific blocks by chunk or segment name
	// (PNG private chunks, JPEG APPn segments).
	Chunks map[string][]byte
}

// newMetadata returns an empty container with allocated maps.
func newMetadata() Metadata {
	return Metadata{
		Text:   make(map[string]string),
		Chunks: make(map[string][]byte),
	}
}

// IsEmpty reports whether the container holds no metadata at all.
// This is the invariant the stripper establishes.
func (m *Metadata) IsEmpty() bool {
	return m.EXIF == nil && m.ICCProfile == nil && m.XMP == nil &&
		len(m.Text) == 0 && len(m.Chunks) == 0
}

// Count returns the number of distinct metadata entries.
func (m *Metadata) Count() int {
	n := len(m.Text) + len(m.Chunks)
	if m.EXIF != nil {
		n++
	}
	if m.ICCProfile != nil {
		n++
	}
	if m.XMP != nil {
		n++
	}
	return n
}

// Keys returns the sorted names of all present metadata entries.
// Used by the inspector for deterministic report output.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, m.Count())
	if m.EXIF != nil {
		keys = append(keys, "exif")
	}
	if m.ICCProfile != nil {
		keys = append(keys, "icc_profile")
	}
	if m.XMP != nil {
		keys = append(keys, "xmp")
	}
	for k := range m.Text {
		keys = append(keys, k)
	}
	for k := range m.Chunks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear removes every entry, mutating the container in place.
// The caller must hold exclusive ownership of the enclosing Buffer.
func (m *Metadata) Clear() {
	m.EXIF = nil
	m.ICCProfile = nil
	m.XMP = nil
	for k := range m.Text {
		delete(m.Text, k)
	}
	for k := range m.Chunks {
		delete(m.Chunks, k)
	}
}

// Clone returns a deep copy of the container.
func (m *Metadata) Clone() Metadata {
	clone := Metadata{
		EXIF:       bytes.Clone(m.EXIF),
		ICCProfile: bytes.Clone(m.ICCProfile),
		XMP:        bytes.Clone(m.XMP),
		Text:       make(map[string]string, len(m.Text)),
		Chunks:     make(map[string][]byte, len(m.Chunks)),
	}
	for k, v := range m.Text {
		clone.Text[k] = v
	}
	for k, v := range m.Chunks {
		clone.Chunks[k] = bytes.Clone(v)
	}
	return clone
}

// xmpSignatures are the byte patterns that indicate an embedded XMP packet.
var xmpSignatures = [][]byte{
	[]byte("<x:xmpmeta"),
	[]byte("http://ns.adobe.com/xap/1.0/"),
}

// HasXMP reports whether the raw bytes contain an XMP packet signature.
// This is a heuristic: it detects presence, it does not parse the packet.
// The verifier uses it as a defense-in-depth check on encoded output.
func HasXMP(data []byte) bool {
	for _, sig := range xmpSignatures {
		if bytes.Contains(data, sig) {
			return true
		}
	}
	return false
}

// ExtractMetadata pulls the ancillary metadata out of raw container bytes.
// PNG and JPEG are walked at the chunk/segment level; other formats fall
// back to a generic EXIF search (TIFF and WebP carry EXIF in ways go-exif
// can locate without a container walk). Extraction is best-effort: a
// truncated container yields whatever was found before the damage, never
// an error, because the pixel decode has already validated the input.
func ExtractMetadata(data []byte, format string) Metadata {
	md := newMetadata()

	switch format {
	case "png":
		extractPNG(data, &md)
	case "jpeg":
		extractJPEG(data, &md)
	default:
		if raw, err := exif.SearchAndExtractExif(data); err == nil && len(raw) > 0 {
			md.EXIF = raw
		}
	}

	// Formats without a structured XMP location still leak through the
	// raw packet; record presence so the stripper invariant covers it.
	if md.XMP == nil && HasXMP(data) {
		md.XMP = extractXMPPacket(data)
	}

	return md
}

// extractXMPPacket copies the region from the first XMP signature to the
// end of the enclosing packet, or to EOF when no packet trailer is found.
func extractXMPPacket(data []byte) []byte {
	start := bytes.Index(data, xmpSignatures[0])
	if start < 0 {
		start = bytes.Index(data, xmpSignatures[1])
	}
	if start < 0 {
		return nil
	}
	end := len(data)
	if i := bytes.Index(data[start:], []byte("</x:xmpmeta>")); i >= 0 {
		end = start + i + len("</x:xmpmeta>")
	}
	return bytes.Clone(data[start:end])
}

// pngSignature is the 8-byte PNG file header.
var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// pngStructuralChunks are chunk types that describe pixel rendering rather
// than carrying side-channel information. They are not collected: the
// encoder regenerates what it needs and drops the rest anyway.
var pngStructuralChunks = map[string]bool{
	"IHDR": true, "PLTE": true, "IDAT": true, "IEND": true,
	"gAMA": true, "cHRM": true, "sRGB": true, "sBIT": true,
	"bKGD": true, "pHYs": true, "tRNS": true, "hIST": true,
}

// extractPNG walks PNG chunks and collects the metadata-bearing ones.
//
// Chunk layout: length (4 bytes, big endian) + type (4 bytes) +
// data (length bytes) + CRC (4 bytes).
func extractPNG(data []byte, md *Metadata) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:8], pngSignature) {
		return
	}
	rest := data[8:]

	for len(rest) >= 12 {
		length := binary.BigEndian.Uint32(rest[:4])
		chunkType := string(rest[4:8])
		if uint32(len(rest)-12) < length {
			return // truncated chunk
		}
		chunkData := rest[8 : 8+length]
		rest = rest[12+length:]

		switch chunkType {
		case "eXIf":
			md.EXIF = bytes.Clone(chunkData)
		case "iCCP":
			if profile := decodeICCPChunk(chunkData); profile != nil {
				md.ICCProfile = profile
			}
		case "tEXt":
			keyword, text, ok := splitKeyword(chunkData)
			if ok {
				md.Text[keyword] = string(text)
			}
		case "zTXt":
			keyword, rest, ok := splitKeyword(chunkData)
			if ok && len(rest) >= 1 {
				// first byte is the compression method
				md.Text[keyword] = string(inflateOrRaw(rest[1:]))
			}
		case "iTXt":
			extractITXt(chunkData, md)
		case "tIME":
			// last-modification time is identifying metadata
			md.Chunks["tIME"] = bytes.Clone(chunkData)
		case "IEND":
			return
		default:
			if !pngStructuralChunks[chunkType] {
				md.Chunks[chunkType] = bytes.Clone(chunkData)
			}
		}
	}
}

// splitKeyword splits a PNG chunk body at the first NUL separator.
func splitKeyword(data []byte) (string, []byte, bool) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil, false
	}
	return string(data[:i]), data[i+1:], true
}

// decodeICCPChunk decodes the iCCP chunk body: keyword, NUL, compression
// method byte, zlib-compressed profile.
func decodeICCPChunk(data []byte) []byte {
	_, rest, ok := splitKeyword(data)
	if !ok || len(rest) < 2 {
		return nil
	}
	return inflateOrRaw(rest[1:])
}

// inflateOrRaw zlib-decompresses the data, falling back to the raw bytes
// when decompression fails. Presence matters more than fidelity here.
func inflateOrRaw(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return bytes.Clone(data)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return bytes.Clone(data)
	}
	return out
}

// xmpKeyword is the iTXt keyword Adobe uses for embedded XMP packets.
const xmpKeyword = "XML:com.adobe.xmp"

// extractITXt parses an iTXt chunk: keyword, NUL, compression flag,
// compression method, language tag, NUL, translated keyword, NUL, text.
func extractITXt(data []byte, md *Metadata) {
	keyword, rest, ok := splitKeyword(data)
	if !ok || len(rest) < 2 {
		return
	}
	compressed := rest[0] == 1
	rest = rest[2:]

	// skip language tag and translated keyword
	for i := 0; i < 2; i++ {
		_, r, ok := splitKeyword(rest)
		if !ok {
			return
		}
		rest = r
	}

	text := rest
	if compressed {
		text = inflateOrRaw(rest)
	}
	if keyword == xmpKeyword {
		md.XMP = bytes.Clone(text)
		return
	}
	md.Text[keyword] = string(text)
}

// JPEG segment headers for metadata-bearing APP segments.
var (
	jpegExifHeader = []byte("Exif\x00\x00")
	jpegXMPHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegICCHeader  = []byte("ICC_PROFILE\x00")
	jpegJFIFHeader = []byte("JFIF\x00")
)

// extractJPEG walks JPEG segments and collects the metadata-bearing ones.
//
// Segment layout: marker (0xFF, type) + length (2 bytes, includes itself) +
// data. The walk stops at SOS since everything after it is entropy-coded
// pixel data.
func extractJPEG(data []byte, md *Metadata) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return
	}
	rest := data[2:]

	var iccParts [][]byte
	for len(rest) >= 4 {
		if rest[0] != 0xFF {
			return // lost segment sync
		}
		marker := rest[1]

		// SOS and EOI have no length; pixel data follows SOS.
		if marker == 0xDA || marker == 0xD9 {
			break
		}
		segLen := int(binary.BigEndian.Uint16(rest[2:4]))
		if segLen < 2 || len(rest) < 2+segLen {
			return // truncated segment
		}
		seg := rest[4 : 2+segLen]
		rest = rest[2+segLen:]

		switch {
		case marker == 0xE1 && bytes.HasPrefix(seg, jpegExifHeader):
			md.EXIF = bytes.Clone(seg[len(jpegExifHeader):])
		case marker == 0xE1 && bytes.HasPrefix(seg, jpegXMPHeader):
			md.XMP = bytes.Clone(seg[len(jpegXMPHeader):])
		case marker == 0xE2 && bytes.HasPrefix(seg, jpegICCHeader):
			// ICC payload: header, sequence number, chunk count, data.
			if body := seg[len(jpegICCHeader):]; len(body) > 2 {
				iccParts = append(iccParts, body[2:])
			}
		case marker == 0xFE: // COM
			md.Text["comment"] = string(seg)
		case marker >= 0xE0 && marker <= 0xEF:
			// APP0 JFIF is structural; other APPn segments are
			// side channels (Photoshop IRB, Adobe, proprietary).
			if marker == 0xE0 && bytes.HasPrefix(seg, jpegJFIFHeader) {
				continue
			}
			md.Chunks[fmt.Sprintf("app%d", marker-0xE0)] = bytes.Clone(seg)
		}
	}

	if len(iccParts) > 0 {
		md.ICCProfile = bytes.Join(iccParts, nil)
	}
}
