// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はカタログのフリーテキストフィールドから
// HTMLタグを除去し、公開ページでの格納型XSSからユーザーを保護する。
// bluemondayライブラリのStrictPolicyを使用し、タグを一切通過させない。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// スクリプトのタイトルやアカウント名など、公開ページに表示され得る
// フィールドの保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
	// タグを含まない入力はそのまま返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのタグと属性を除去する。カタログのテキストフィールドに
// HTMLが必要になるケースはないため、許可リストは設けない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
// bluemondayは残ったテキストをHTMLエンティティにエスケープするが、
// 保存するのはHTMLではなくプレーンテキストのため、エスケープを元に戻す。
// これにより「&」や「<」を含むタイトルが保存前後で変化しない。
func (s *textSanitizer) Sanitize(raw string) string {
	return html.UnescapeString(s.policy.Sanitize(raw))
}
