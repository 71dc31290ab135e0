// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/export"
	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/queue"
)

func ledgerHeader() model1.Header {
	return model1.Header{
		{Name: "code", Title: "Code"},
		{Name: "name", Title: "品名"},
		{Name: "qty", Title: "Qty", Attrs: model1.Attrs{Kind: model1.KindInt}},
		{Name: "ok", Title: "OK", Attrs: model1.Attrs{Kind: model1.KindBool}},
	}
}

func ledgerRows() model1.Rows {
	return model1.Rows{
		{ID: "A1", Fields: model1.Fields{"A1", "ボルト", int64(3), true}},
		{ID: "A2", Fields: model1.Fields{"A2", "nut, hex", nil, false}},
	}
}

func TestWriteCSVUTF8(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, ledgerHeader(), ledgerRows(), export.EncodingUTF8))

	assert.Equal(t, "Code,品名,Qty,OK\nA1,ボルト,3,yes\nA2,\"nut, hex\",,no\n", buf.String())
}

func TestWriteCSVBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, ledgerHeader(), nil, export.EncodingUTF8BOM))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteCSVShiftJIS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, ledgerHeader(), ledgerRows(), export.EncodingShiftJIS))

	assert.NotContains(t, buf.String(), "ボルト")
	raw, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "A1,ボルト,3,yes")
}

func TestParseEncoding(t *testing.T) {
	e, err := export.ParseEncoding("Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, export.EncodingShiftJIS, e)
	assert.Equal(t, "shift_jis", e.String())

	_, err = export.ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func TestCollectAll(t *testing.T) {
	rows := make(model1.Rows, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		rows = append(rows, model1.Row{ID: id, Fields: model1.Fields{id, id, int64(1), true}})
	}
	src := dao.NewMemorySource(ledgerHeader(), rows)

	got, err := export.CollectAll(context.Background(), src, dao.Query{Offset: 5, Limit: 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, got.IDs())

	got, err = export.CollectAll(context.Background(), src, dao.ParseQuery("zzz", 0, 0), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	api := fakeS3{}
	sink, err := export.NewS3Sink(&api, "s3://ledgers/erptab/exports/")
	require.NoError(t, err)

	loc, err := sink.Put(context.Background(), "items.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3://ledgers/erptab/exports/items.csv", loc)
	assert.Equal(t, "ledgers", *api.in.Bucket)
	assert.Equal(t, "a,b\n", api.body)

	_, err = export.NewS3Sink(&api, "/nope")
	assert.Error(t, err)
}

func TestS3SinkErrors(t *testing.T) {
	api := fakeS3{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}}
	sink, err := export.NewS3Sink(&api, "ledgers")
	require.NoError(t, err)

	_, err = sink.Put(context.Background(), "x.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, export.ErrAccessDenied)

	api.err = &smithy.GenericAPIError{Code: "InternalError", Message: "oops"}
	_, err = sink.Put(context.Background(), "x.csv", strings.NewReader(""))
	assert.EqualError(t, err, "put object failed: oops (InternalError)")

	api.err = errors.New("dial tcp: refused")
	_, err = sink.Put(context.Background(), "x.csv", strings.NewReader(""))
	assert.EqualError(t, err, "put object failed: dial tcp: refused")
}

func TestExportJob(t *testing.T) {
	dir := t.TempDir()
	r := queue.NewRegistry(nil)

	var loc string
	r.Handle(export.QueueName, 1, export.Handler(export.DirSink{Dir: dir}, nil, func(l string, err error) {
		assert.NoError(t, err)
		loc = l
	}))
	_, err := r.Enqueue(context.Background(), export.QueueName, export.Request{
		Table:  "items",
		Header: ledgerHeader(),
		Rows:   ledgerRows(),
	})
	require.NoError(t, err)
	_, err = r.Enqueue(context.Background(), export.QueueName, "junk")
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(context.Background()))

	require.NotEmpty(t, loc)
	assert.Equal(t, dir, filepath.Dir(loc))
	raw, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Code,品名"))

	q, err := r.Get(export.QueueName)
	assert.Nil(t, q)
	assert.ErrorIs(t, err, queue.ErrQueueClosed)
}

func TestRequestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	uu := map[string]struct {
		id string
		e  string
	}{
		"no-id": {
			e: "items_20260304_050607.csv",
		},
		"uuid": {
			id: "0b5e7c1a-93f2-4d6e-8a0b-1c2d3e4f5a6b",
			e:  "items_20260304_050607_0b5e7c1a.csv",
		},
		"short": {
			id: "abc",
			e:  "items_20260304_050607_abc.csv",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, export.Request{ID: u.id, Table: "items"}.FileName(ts))
		})
	}
}

func TestRunSameSecondKeepsBoth(t *testing.T) {
	sink := export.DirSink{Dir: t.TempDir()}
	req := export.Request{Table: "items", Header: ledgerHeader(), Rows: ledgerRows()}

	l1, err := export.Run(context.Background(), sink, req)
	require.NoError(t, err)
	l2, err := export.Run(context.Background(), sink, req)
	require.NoError(t, err)

	assert.NotEqual(t, l1, l2)
	ee, err := os.ReadDir(sink.Dir)
	require.NoError(t, err)
	assert.Len(t, ee, 2)
}

type fakeIdentity struct {
	account string
	err     error
}

func (f fakeIdentity) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

func TestCheckIdentity(t *testing.T) {
	uu := map[string]struct {
		api     fakeIdentity
		account string
		err     error
	}{
		"ok": {
			api:     fakeIdentity{account: "123456789012"},
			account: "123456789012",
		},
		"invalid-token": {
			api: fakeIdentity{err: &smithy.GenericAPIError{Code: "InvalidClientTokenId", Message: "bad token"}},
			err: export.ErrAccessDenied,
		},
		"expired": {
			api: fakeIdentity{err: &smithy.GenericAPIError{Code: "ExpiredToken", Message: "expired"}},
			err: export.ErrAccessDenied,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			account, err := export.CheckIdentity(context.Background(), u.api)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.account, account)
		})
	}
}
