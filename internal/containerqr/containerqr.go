// Package containerqr implements the one boundary spec.md §1 keeps in
// scope for QR generation: producing the JSON string an external QR
// encoder process consumes. Actual barcode rendering is out of scope
// (spec.md §1 Out of scope: "The QR/barcode encoder invocation").
//
// Grounded on prov_qr.py, which does nothing more than read a container
// file and hand its bytes to an external `qrencode` invocation; this
// package stops at the string.
package containerqr

import "encoding/json"

// ContainerString returns containerBytes as a plain UTF-8 string, byte for
// byte, suitable for piping to an external QR/barcode encoder process. It
// only checks that containerBytes is well-formed JSON (prov_qr.py does a
// json.loads/json.dumps round-trip instead); field order and content are
// left unaltered.
func ContainerString(containerBytes []byte) (string, error) {
	var v interface{}
	if err := json.Unmarshal(containerBytes, &v); err != nil {
		return "", err
	}
	return string(containerBytes), nil
}
