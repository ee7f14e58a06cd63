package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T) (*LocalStorageClient, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "exports")
	client, err := NewLocalStorageClient(root)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, root
}

func TestNewLocalStorageClient(t *testing.T) {
	_, root := newTestClient(t)

	if _, err := os.Stat(root); os.IsNotExist(err) {
		t.Error("root directory was not created")
	}
}

func TestLocalStorageClient_StoreAndGet(t *testing.T) {
	client, root := newTestClient(t)
	ctx := context.Background()

	if err := client.StoreFile(ctx, "2024/03/01/chart.json", []byte(`{"data":[]}`)); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "2024", "03", "01", "chart.json")); err != nil {
		t.Errorf("file not written under root: %v", err)
	}

	data, err := client.GetFile(ctx, "2024/03/01/chart.json")
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(data) != `{"data":[]}` {
		t.Errorf("Unexpected content %q", data)
	}

	if _, err := client.GetFile(ctx, "missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLocalStorageClient_FileExists(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.StoreFile(ctx, "a/b.png", []byte{1}); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"a/b.png", true},
		{"a/c.png", false},
		{"a", false}, // directories are not files
	}
	for _, tt := range tests {
		got, err := client.FileExists(ctx, tt.path)
		if err != nil {
			t.Fatalf("FileExists(%s) failed: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FileExists(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"x/one.json", "x/two.png", "x/sub/three.json"} {
		if err := client.StoreFile(ctx, p, []byte("1")); err != nil {
			t.Fatalf("StoreFile(%s) failed: %v", p, err)
		}
	}

	flat, err := client.ListDir(ctx, "x", false)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if want := []string{"x/one.json", "x/sub/", "x/two.png"}; !reflect.DeepEqual(flat, want) {
		t.Errorf("ListDir = %v, want %v", flat, want)
	}

	all, err := client.ListDir(ctx, "x", true)
	if err != nil {
		t.Fatalf("recursive ListDir failed: %v", err)
	}
	if want := []string{"x/one.json", "x/sub/three.json", "x/two.png"}; !reflect.DeepEqual(all, want) {
		t.Errorf("recursive ListDir = %v, want %v", all, want)
	}
}

func TestLocalStorageClient_RejectsEscapingPaths(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"../outside.json", "a/../../outside.json"} {
		if err := client.StoreFile(ctx, p, []byte("x")); err == nil {
			t.Errorf("StoreFile(%s) should fail", p)
		}
	}
}

func TestLocalStorageClient_CreateDir(t *testing.T) {
	client, root := newTestClient(t)

	if err := client.CreateDir(context.Background(), "2024/12/31/Comparacao"); err != nil {
		t.Fatalf("CreateDir failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "2024", "12", "31", "Comparacao"))
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
