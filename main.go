package main

import (
	"flag"
	"log"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var datafile = flag.String("data", "", "corpus file: docs json or zip of json")
var port = flag.String("port", "8080", "port to listen")
var onlyload = flag.Bool("onlyload", false, "only load")
var useMmap = flag.Bool("mmap", false, "back the corpus arena with anonymous mappings")
var blocksize = flag.Int("blocksize", 1<<20, "initial corpus arena block size")
var verbose = flag.Bool("verbose", false, "debug logging")

var jsonConfig = jsoniter.Config{
	OnlyTaggedField: true,
	CaseSensitive:   true,
}.Froze()

func logf(format string, args ...interface{}) {
	if *verbose {
		log.Printf(format, args...)
	}
}

func main() {
	log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	flag.Parse()
	initCorpus()
	if *datafile != "" {
		Load(*datafile)
	}

	if *onlyload {
		return
	}

	err := fasthttp.ListenAndServe(":"+*port, handler)
	if err != nil {
		log.Fatal(err)
	}
}

func handler(ctx *fasthttp.RequestCtx) {
	path := ctx.Path()
	switch {
	case ctx.IsGet():
		getHandler(ctx, path)
	case ctx.IsPost():
		postHandler(ctx, path)
	default:
		ctx.SetStatusCode(405)
	}
}
