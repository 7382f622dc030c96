package main

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"

	"github.com/dgryski/go-ddmin"
	"github.com/serbuf/serbuf/msgpack"
)

// decodes returns false when the decoder panics.
func decodes(doc []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	var m interface{}
	msgpack.Unmarshal(doc, &m)
	return true
}

func main() {
	for {
		l := 1 + mrand.Intn(200)
		doc := make([]byte, l)
		crand.Read(doc)

		if decodes(doc) {
			continue
		}

		fmt.Println("crasher found:")
		fmt.Println(hex.Dump(doc))

		small := ddmin.Minimize(doc, func(d []byte) ddmin.Result {
			if decodes(d) {
				return ddmin.Pass
			}
			return ddmin.Fail
		})

		fmt.Println("minimized to:")
		fmt.Println(hex.Dump(small))
		return
	}
}
