package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docportal/internal/httpclient"
	"docportal/internal/model"
)

func TestNew_RegistersDocumentTemplate(t *testing.T) {
	f := newFixture(t)

	res, err := f.session.ListResourceTemplates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.ResourceTemplates, 1)
	assert.Equal(t, "resource://document/{document_id}", res.ResourceTemplates[0].URITemplate)
}

func TestReadDocumentResource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.docs.On("DownloadContent", mock.Anything, "t").Return([]byte("hello"), model.DownloadInfo{FileName: "notes.txt"}, nil).Once()
	f.docs.On("DownloadContent", mock.Anything, "b").Return([]byte{0xff, 0x00}, model.DownloadInfo{}, nil).Once()
	f.docs.On("DownloadContent", mock.Anything, "gone").Return(nil, model.DownloadInfo{}, &httpclient.HTTPError{Status: 404}).Once()

	t.Run("text", func(t *testing.T) {
		res, err := f.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "resource://document/t"})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "hello", res.Contents[0].Text)
		assert.Contains(t, res.Contents[0].MIMEType, "text/plain")
		assert.Equal(t, "resource://document/t", res.Contents[0].URI)
	})

	t.Run("binary", func(t *testing.T) {
		res, err := f.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "resource://document/b"})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Empty(t, res.Contents[0].Text)
		assert.Equal(t, []byte{0xff, 0x00}, res.Contents[0].Blob)
		assert.Equal(t, "application/octet-stream", res.Contents[0].MIMEType)
	})

	t.Run("backend error", func(t *testing.T) {
		_, err := f.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "resource://document/gone"})
		assert.Error(t, err)
	})

	f.docs.AssertExpectations(t)
}

func TestDocumentIDFromURI(t *testing.T) {
	id, err := documentIDFromURI("resource://document/a%20b")
	require.NoError(t, err)
	assert.Equal(t, "a b", id)

	for _, bad := range []string{"resource://document/", "resource://doc/1", "resource://document/1/2"} {
		_, err := documentIDFromURI(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "resource://document/a%20b", documentURI("a b"))
}
