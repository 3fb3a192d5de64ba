package main

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

func getHandler(ctx *fasthttp.RequestCtx, path []byte) {
	switch {
	case bytes.Equal(path, []byte("/words/")):
		doWords(ctx)
	case bytes.Equal(path, []byte("/stats/")):
		doStats(ctx)
	case bytes.HasPrefix(path, []byte("/docs/")):
		rest := path[len("/docs/"):]
		if !bytes.HasSuffix(rest, []byte("/")) {
			ctx.SetStatusCode(404)
			return
		}
		id, err := strconv.ParseUint(string(rest[:len(rest)-1]), 10, 32)
		if err != nil || id == 0 {
			ctx.SetStatusCode(400)
			return
		}
		doGetDoc(ctx, uint32(id))
	default:
		ctx.SetStatusCode(404)
	}
}

func doWords(ctx *fasthttp.RequestCtx) {
	q := ctx.QueryArgs().Peek("q")
	if len(q) == 0 {
		ctx.SetStatusCode(400)
		return
	}
	// Normalize the query the way texts are tokenized, so Count("The")
	// answers for "the".
	word := ""
	forEachToken(string(q), func(tok string) {
		if word == "" {
			word = strings.Clone(tok)
		}
	})
	if word == "" {
		ctx.SetStatusCode(400)
		return
	}

	corpusMu.RLock()
	defer corpusMu.RUnlock()
	count := uint32(0)
	if ix := Words.Find(word); ix != 0 {
		count = Words.GetHndl(ix).Count
	}

	stream := jsonConfig.BorrowStream(nil)
	stream.Write([]byte(`{"word":`))
	stream.WriteString(word)
	stream.Write([]byte(`,"count":`))
	stream.WriteUint32(count)
	stream.Write([]byte(`}`))
	ctx.SetStatusCode(200)
	ctx.SetBody(stream.Buffer())
	jsonConfig.ReturnStream(stream)
}

func doStats(ctx *fasthttp.RequestCtx) {
	corpusMu.RLock()
	defer corpusMu.RUnlock()

	stream := jsonConfig.BorrowStream(nil)
	stream.Write([]byte(`{"docs":`))
	stream.WriteInt(len(Docs))
	stream.Write([]byte(`,"tokens":`))
	stream.WriteInt(TokenCount)
	stream.Write([]byte(`,"uniq":`))
	stream.WriteInt(Words.Len())
	stream.Write([]byte(`,"arena":{"blocks":`))
	stream.WriteInt(CorpusArena.BlockCount())
	stream.Write([]byte(`,"capacity":`))
	stream.WriteInt(CorpusArena.TotalCapacity())
	stream.Write([]byte(`,"used":`))
	stream.WriteInt(CorpusArena.Used())
	stream.Write([]byte(`}}`))
	ctx.SetStatusCode(200)
	ctx.SetBody(stream.Buffer())
	jsonConfig.ReturnStream(stream)
}

func doGetDoc(ctx *fasthttp.RequestCtx, id uint32) {
	corpusMu.RLock()
	defer corpusMu.RUnlock()
	d := Docs[id]
	if d == nil {
		ctx.SetStatusCode(404)
		return
	}
	stream := jsonConfig.BorrowStream(nil)
	stream.Write([]byte(`{"id":`))
	stream.WriteUint32(d.Id)
	stream.Write([]byte(`,"n":`))
	stream.WriteInt32(d.NTok)
	stream.Write([]byte(`,"tokens":[`))
	for n := d.Tokens; n != nil; n = n.Next {
		stream.WriteString(Words.GetStr(n.Word))
		if n.Next != nil {
			stream.WriteMore()
		}
	}
	stream.Write([]byte(`]}`))
	ctx.SetStatusCode(200)
	ctx.SetBody(stream.Buffer())
	jsonConfig.ReturnStream(stream)
}
