// Package upload は画像アップロードの変換処理を提供する。
// 受け取ったファイルをbase64エンコードしたdata URIに変換する。
// 永続化は行わず、変換結果はカタログのimageフィールドとして保存される。
package upload

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// defaultExtension は拡張子が判定できない場合に使用するメディアタイプ。
const defaultExtension = "png"

// EncodeDataURI はファイル内容をbase64エンコードしたdata URIに変換する。
// メディアタイプはファイル名の拡張子（小文字化）から決定し、
// 拡張子がない場合はpngとして扱う。内容の検証は行わない。
func EncodeDataURI(data []byte, filename string) string {
	ext := extensionOf(filename)
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:image/%s;base64,%s", ext, encoded)
}

// extensionOf はファイル名から拡張子を取り出す。
func extensionOf(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return defaultExtension
	}
	return strings.ToLower(filename[idx+1:])
}

// unsafeFilenameChars はファイル名として許可しない文字のパターン。
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename はクライアント提供のファイル名を安全な形に正規化する。
// パス区切りを除去し、英数字・アンダースコア・ドット・ハイフン以外を
// アンダースコアに置換する。先頭・末尾のドットとアンダースコアは取り除く。
func SanitizeFilename(name string) string {
	// パストラバーサル対策: 最後の区切り文字以降のみを使用する
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}
