package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type mockLogger struct {
	logs []struct {
		level   string
		message string
		err     error
	}
}

func (m *mockLogger) Log(level, message string, err error) {
	m.logs = append(m.logs, struct {
		level   string
		message string
		err     error
	}{level, message, err})
}

func TestScanner_ValidateDirectoryPath(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)

	// テスト用の一時ディレクトリを作成
	tempDir, err := os.MkdirTemp("", "scanner_test")
	if err != nil {
		t.Fatalf("一時ディレクトリの作成に失敗: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "有効なディレクトリパス",
			path:    tempDir,
			wantErr: false,
		},
		{
			name:    "空のパス",
			path:    "",
			wantErr: true,
		},
		{
			name:    "存在しないパス",
			path:    filepath.Join(tempDir, "notexist"),
			wantErr: true,
		},
		{
			name:    "不正な文字を含むパス",
			path:    filepath.Join(tempDir, "test<>|?*"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanner.ValidateDirectoryPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirectoryPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScanner_ValidateFilePath(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "tone.wav")
	if err := os.WriteFile(file, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantErr    bool
		wantNotReg bool
	}{
		{name: "通常のファイル", path: file},
		{name: "空のパス", path: "", wantErr: true},
		{name: "存在しないファイル", path: filepath.Join(tempDir, "missing"), wantErr: true},
		{name: "ディレクトリ", path: tempDir, wantErr: true, wantNotReg: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanner.ValidateFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantNotReg && !errors.Is(err, ErrNotRegularFile) {
				t.Errorf("ValidateFilePath() error = %v, want ErrNotRegularFile", err)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)

	tempDir := t.TempDir()

	// テスト用のファイルとディレクトリを作成
	testDir := filepath.Join(tempDir, "sounds")
	if err := os.Mkdir(testDir, 0755); err != nil {
		t.Fatalf("テストディレクトリの作成に失敗: %v", err)
	}
	textFile := filepath.Join(tempDir, "README")
	if err := os.WriteFile(textFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}
	audioFile := filepath.Join(testDir, "tone.wav")
	if err := os.WriteFile(audioFile, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}
	// 実行可能なバイナリファイルの作成
	binaryFile := filepath.Join(tempDir, "tool")
	if err := os.WriteFile(binaryFile, []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}, 0755); err != nil {
		t.Fatalf("バイナリファイルの作成に失敗: %v", err)
	}

	entries, err := scanner.Scan(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// ディレクトリは収集しないため3つ
	if len(entries) != 3 {
		t.Fatalf("Scan() got %v entries, want 3", len(entries))
	}

	byName := make(map[string]int)
	for i, entry := range entries {
		byName[filepath.Base(entry.Path)] = i
	}
	tool, ok := byName["tool"]
	if !ok {
		t.Fatal("tool が見つかりません")
	}
	if !entries[tool].IsBinary || !entries[tool].Executable {
		t.Errorf("tool: IsBinary=%v Executable=%v, want true, true", entries[tool].IsBinary, entries[tool].Executable)
	}
	readme := entries[byName["README"]]
	if readme.IsBinary || readme.Executable {
		t.Errorf("README: IsBinary=%v Executable=%v, want false, false", readme.IsBinary, readme.Executable)
	}
	if readme.Size != int64(len("test content")) {
		t.Errorf("README: Size = %d", readme.Size)
	}
	tone := entries[byName["tone.wav"]]
	if tone.Depth != 1 || tone.RelPath != filepath.Join("sounds", "tone.wav") {
		t.Errorf("tone.wav: Depth=%d RelPath=%q", tone.Depth, tone.RelPath)
	}
}

func TestScanner_ScanCancelled(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := scanner.Scan(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
}

func TestScanner_Describe(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	file := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(file, []byte{0x89, 'P', 'N', 'G', 0x00}, 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}

	got, err := scanner.Describe(file)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got.RelPath != "icon.png" || !got.IsBinary || got.Executable {
		t.Errorf("Describe() = %+v", got)
	}
	if _, err := scanner.Describe(filepath.Dir(file)); err == nil {
		t.Error("ディレクトリの Describe() はエラーになるはずです")
	}
}

func TestScanner_isBinaryFile(t *testing.T) {
	logger := &mockLogger{}
	scanner := NewScanner(logger)

	tests := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{
			name:     "テキストファイル",
			content:  []byte("This is a text file\nwith multiple lines\n"),
			expected: false,
		},
		{
			name:     "NULLを含むバイナリファイル",
			content:  []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x00, 0x57, 0x6f, 0x72, 0x6c, 0x64},
			expected: true,
		},
		{
			name:     "制御文字を含むバイナリファイル",
			content:  []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x03, 0x57, 0x6f, 0x72, 0x6c, 0x64},
			expected: true,
		},
		{
			name:     "空のファイル",
			content:  []byte{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scanner.isBinaryFile(tt.content)
			if result != tt.expected {
				t.Errorf("isBinaryFile() = %v, want %v", result, tt.expected)
			}
		})
	}
}
