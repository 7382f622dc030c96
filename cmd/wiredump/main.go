package main

import (
	"flag"
	"io/ioutil"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/serbuf/serbuf/json"
	"github.com/serbuf/serbuf/msgpack"
)

var asJSON = flag.Bool("json", false, "force JSON input")
var asMsgpack = flag.Bool("msgpack", false, "force MessagePack input")

func looksLikeJSON(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[', '"', 't', 'f', 'n', '-':
			return true
		default:
			return c >= '0' && c <= '9'
		}
	}
	return false
}

func process(fname string, b []byte) {
	var i interface{}
	var err error

	switch {
	case *asJSON, !*asMsgpack && looksLikeJSON(b):
		err = json.Unmarshal(b, &i)
	default:
		_, err = msgpack.Unmarshal(b, &i)
	}

	if err != nil {
		log.Fatalf("error processing %s: %s", fname, err)
	}

	spew.Dump(i)
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		b, _ := ioutil.ReadAll(os.Stdin)
		process("stdin", b)
		return
	}

	for _, arg := range flag.Args() {
		b, _ := ioutil.ReadFile(arg)
		process(arg, b)
	}
}
