package extractor

import (
	"testing"
)

func TestExtractPriceFromPriceClass(t *testing.T) {
	e := New("ノジマ")
	html := `<html><body><div class="productPrice">¥12,800円</div></body></html>`

	price, ok := e.ExtractPrice(html)
	if !ok {
		t.Fatal("expected a price")
	}
	if price != 12800 {
		t.Fatalf("expected 12800, got %d", price)
	}
}

func TestExtractPriceFromValueAttr(t *testing.T) {
	e := New("")
	html := `<html><body><span class="amount-value">5,000</span></body></html>`

	price, ok := e.ExtractPrice(html)
	if !ok {
		t.Fatal("expected a price")
	}
	if price != 5000 {
		t.Fatalf("expected 5000, got %d", price)
	}
}

func TestExtractPriceFromItemprop(t *testing.T) {
	e := New("")
	html := `<html><body><span itemprop="price">  3980円 </span></body></html>`

	price, ok := e.ExtractPrice(html)
	if !ok {
		t.Fatal("expected a price")
	}
	if price != 3980 {
		t.Fatalf("expected 3980, got %d", price)
	}
}

func TestExtractPriceStructuredBeforeFallback(t *testing.T) {
	e := New("")
	html := `<html><body>
        <p>広告特価 9,999円</p>
        <div class="price">1,500円</div>
    </body></html>`

	price, ok := e.ExtractPrice(html)
	if !ok {
		t.Fatal("expected a price")
	}
	if price != 1500 {
		t.Fatalf("structured match should win over text fallback, got %d", price)
	}
}

func TestExtractPriceFallbackRequiresYenSuffix(t *testing.T) {
	e := New("")

	if _, ok := e.ExtractPrice(`<html><body><p>1980</p></body></html>`); ok {
		t.Fatal("bare number without 円 should not match the fallback")
	}

	price, ok := e.ExtractPrice(`<html><body><p>セール特価 1,980円</p></body></html>`)
	if !ok {
		t.Fatal("expected a price from text fallback")
	}
	if price != 1980 {
		t.Fatalf("expected 1980, got %d", price)
	}
}

func TestExtractPriceBounds(t *testing.T) {
	e := New("")

	// 99 is below the minimum; the next candidate must be tried.
	html := `<html><body>
        <div class="price">99</div>
        <div class="price">9,800</div>
    </body></html>`
	price, ok := e.ExtractPrice(html)
	if !ok {
		t.Fatal("expected the in-range candidate")
	}
	if price != 9800 {
		t.Fatalf("expected 9800, got %d", price)
	}

	if _, ok := e.ExtractPrice(`<html><body><div class="price">12,000,000円</div></body></html>`); ok {
		t.Fatal("price above maximum should be rejected")
	}
	if _, ok := e.ExtractPrice(`<html><body><div class="price">99円</div></body></html>`); ok {
		t.Fatal("price below minimum should be rejected")
	}
}

func TestExtractPriceAbsent(t *testing.T) {
	e := New("")
	html := `<html><body><h1>商品のご案内</h1><p>在庫あり</p></body></html>`

	if _, ok := e.ExtractPrice(html); ok {
		t.Fatal("page without any price pattern should yield absent")
	}
}

func TestExtractProductNameFromH1(t *testing.T) {
	e := New("ノジマ")
	html := `<html><body><h1>ソニー WH-1000XM5 ワイヤレスヘッドホン</h1></body></html>`

	name := e.ExtractProductName(html)
	if name != "ソニー WH-1000XM5 ワイヤレスヘッドホン" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestExtractProductNameStripsSuffixes(t *testing.T) {
	e := New("ノジマ")

	name := e.ExtractProductName(`<html><body><h1>商品A詳細ページ｜ノジマオンライン</h1></body></html>`)
	if name != "商品A詳細ページ" {
		t.Fatalf("pipe suffix should be stripped, got %q", name)
	}

	name = e.ExtractProductName(`<html><head><title>シャープ 空気清浄機 - ノジマオンライン</title></head></html>`)
	if name != "シャープ 空気清浄機" {
		t.Fatalf("site suffix should be stripped, got %q", name)
	}
}

func TestExtractProductNameFromProductHeading(t *testing.T) {
	e := New("")
	html := `<html><body>
        <h2 class="section">ご案内</h2>
        <h2 class="ProductTitle">パナソニック ヘアドライヤー</h2>
    </body></html>`

	name := e.ExtractProductName(html)
	if name != "パナソニック ヘアドライヤー" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestExtractProductNameSentinel(t *testing.T) {
	e := New("ノジマ")

	if name := e.ExtractProductName(`<html><body></body></html>`); name != UnknownProductName {
		t.Fatalf("expected sentinel, got %q", name)
	}

	// Too short after trimming: falls through to the sentinel.
	if name := e.ExtractProductName(`<html><body><h1>あいう</h1></body></html>`); name != UnknownProductName {
		t.Fatalf("expected sentinel for short name, got %q", name)
	}

	if name := e.ExtractProductName(""); name == "" {
		t.Fatal("name must never be empty")
	}
}
