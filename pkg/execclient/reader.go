package execclient

import "bytes"

func newReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
