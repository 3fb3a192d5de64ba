package main

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

type DocIn struct {
	Id   uint32 `json:"id"`
	Text string `json:"text"`
}

// Load preloads the corpus from a {"docs":[...]} json file, or a zip whose
// every file is one. Bad data is fatal: the corpus is either complete or the
// process is gone.
func Load(path string) {
	if strings.HasSuffix(path, ".zip") {
		rdr, err := zip.OpenReader(path)
		if err != nil {
			log.Fatal(err)
		}
		defer rdr.Close()
		for _, f := range rdr.File {
			rc, err := f.Open()
			if err != nil {
				log.Fatal(err)
			}
			loadFrom(rc)
			rc.Close()
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		loadFrom(f)
	}

	fmt.Println("docs ", len(Docs), " tokens ", TokenCount, " uniq ", Words.Len())
	fmt.Println("arena ", CorpusArena.BlockCount(), " blocks ",
		CorpusArena.TotalCapacity(), " capacity ", CorpusArena.Used(), " used")
}

func loadFrom(r io.Reader) {
	iter := jsoniter.Parse(jsonConfig, r, 256*1024)
	if attr := iter.ReadObject(); attr != "docs" {
		log.Fatal("No docs ", attr, iter.Error)
	}
	for iter.ReadArray() {
		var doc DocIn
		iter.ReadVal(&doc)
		if iter.Error != nil {
			break
		}
		if doc.Id == 0 {
			panic("doc id is not set")
		}
		if Docs[doc.Id] != nil {
			panic(fmt.Sprintf("doc id is not unique %d", doc.Id))
		}
		InsertDoc(doc.Id, doc.Text)
	}
	if iter.Error != nil {
		log.Fatal("Error reading docs: ", iter.Error)
	}
}
