package main

import (
	"bytes"
	"sync"

	"github.com/valyala/fasthttp"

	"github.com/funny-falcon/memarena/arena"
	"github.com/funny-falcon/memarena/strtab"
)

func postHandler(ctx *fasthttp.RequestCtx, path []byte) {
	logf("post path: %s, args: %s", path, ctx.QueryArgs())
	switch {
	case bytes.Equal(path, []byte("/docs/")):
		if !doDocs(ctx) {
			ctx.SetStatusCode(400)
		}
	default:
		ctx.SetStatusCode(404)
	}
}

// scratch is per-request working memory: one arena for token staging and a
// table to count distinct tokens of the request. Reset and pooled between
// requests.
type scratch struct {
	ar  *arena.Arena
	tab *strtab.Table
}

var scratchPool = sync.Pool{
	New: func() interface{} {
		ar := arena.NewArena(arena.DefaultBlockSize, nil)
		return &scratch{ar: ar, tab: strtab.New(ar)}
	},
}

func borrowScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

func returnScratch(sc *scratch) {
	sc.tab.Reset()
	sc.ar.Reset()
	scratchPool.Put(sc)
}

func doDocs(ctx *fasthttp.RequestCtx) bool {
	iter := jsonConfig.BorrowIterator(ctx.PostBody())
	defer jsonConfig.ReturnIterator(iter)
	if attr := iter.ReadObject(); attr != "docs" {
		logf("doDocs: no docs, got %q: %v", attr, iter.Error)
		return false
	}
	var docs []DocIn
	for iter.ReadArray() {
		var doc DocIn
		iter.ReadVal(&doc)
		if iter.Error != nil {
			break
		}
		docs = append(docs, doc)
	}
	if iter.Error != nil || iter.ReadObject() != "" || iter.Error != nil {
		logf("parsing docs fails: %v", iter.Error)
		return false
	}

	corpusMu.Lock()
	defer corpusMu.Unlock()

	seen := make(map[uint32]struct{}, len(docs))
	for i := range docs {
		id := docs[i].Id
		if id == 0 {
			logf("doc id is not set")
			return false
		}
		if Docs[id] != nil {
			logf("doc id is already used %d", id)
			return false
		}
		if _, dup := seen[id]; dup {
			logf("doc id repeats in batch %d", id)
			return false
		}
		seen[id] = struct{}{}
	}

	sc := borrowScratch()
	defer returnScratch(sc)
	tokens := 0
	for i := range docs {
		forEachToken(docs[i].Text, func(tok string) {
			sc.tab.Insert(tok)
			tokens++
		})
	}
	for i := range docs {
		InsertDoc(docs[i].Id, docs[i].Text)
	}

	stream := jsonConfig.BorrowStream(nil)
	stream.Write([]byte(`{"docs":`))
	stream.WriteInt(len(docs))
	stream.Write([]byte(`,"tokens":`))
	stream.WriteInt(tokens)
	stream.Write([]byte(`,"uniq":`))
	stream.WriteInt(sc.tab.Len())
	stream.Write([]byte(`}`))
	ctx.SetStatusCode(201)
	ctx.SetBody(stream.Buffer())
	jsonConfig.ReturnStream(stream)
	return true
}
