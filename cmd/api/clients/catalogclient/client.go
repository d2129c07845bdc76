package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/httpclient"
	"peleman-chatbot/config"
	"peleman-chatbot/models"
)

// Client 는 호스트(WordPress)의 카탈로그 API 를 호출한다. catalog.Fetcher 를 구현한다.
type Client struct {
	base *httpclient.BaseClient
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog request failed: status=%d body=%s", e.StatusCode, e.Body)
}

// BaseURL 은 host.catalog_api_url, 없으면 <site_url>/wp-json/peleman-chatbot/v1 이다.
func BaseURL(host config.HostConfig) string {
	if api := strings.TrimSpace(host.CatalogAPIURL); api != "" {
		return strings.TrimRight(api, "/")
	}
	return strings.TrimRight(host.SiteURL, "/") + "/wp-json/peleman-chatbot/v1"
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(httpclient.New(httpclient.Config{Timeout: timeout}), baseURL)
}

// NewWithHTTPClient 는 요청 추적용 round tripper 가 이미 붙은 http.Client 를 재사용할 때 쓴다.
func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// FetchCatalog 는 GET <base>/catalog?lang=xx 를 호출한다. lang 은 기본 언어 코드만 보낸다.
func (c *Client) FetchCatalog(ctx context.Context, lang string) (catalog.Catalog, error) {
	var query url.Values
	if base, _, _ := strings.Cut(lang, "-"); base != "" {
		query = url.Values{"lang": {base}}
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/catalog", query, nil)
	if err != nil {
		return catalog.Catalog{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return catalog.Catalog{}, err
	}
	defer resp.Body.Close()

	const maxBodySize = 10 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalog.Catalog{}, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return Decode(body)
}

type wireCatalog struct {
	Categories json.RawMessage `json:"categories"`
	Products   json.RawMessage `json:"products"`
}

// Decode 는 카탈로그 응답을 읽는다. categories/products 는 배열이거나 ID 를 키로 한 객체일 수 있다.
// 객체면 정수 키를 오름차순으로, 나머지 키는 문서 순서로 값을 꺼낸다.
func Decode(body []byte) (catalog.Catalog, error) {
	var wire wireCatalog
	if err := json.Unmarshal(body, &wire); err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog response decode failed: %w", err)
	}
	var (
		out catalog.Catalog
		err error
	)
	if out.Categories, err = decodeList[models.Category](wire.Categories); err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog categories: %w", err)
	}
	if out.Products, err = decodeList[models.Product](wire.Products); err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog products: %w", err)
	}
	return out, nil
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	entries, err := objectEntries(raw)
	if err != nil {
		return nil, err
	}
	list := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.value, &v); err != nil {
			return nil, fmt.Errorf("key %q: %w", e.key, err)
		}
		list = append(list, v)
	}
	return list, nil
}

type entry struct {
	key   string
	value json.RawMessage
}

func objectEntries(raw json.RawMessage) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected array or object")
	}

	var (
		indexed []entry
		named   []entry
		seen    = map[string]int{}
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		// 중복 키는 마지막 값이 첫 위치를 유지한다
		if pos, ok := seen[key]; ok {
			if pos >= 0 {
				indexed[pos].value = value
			} else {
				named[-pos-1].value = value
			}
			continue
		}
		if isArrayIndex(key) {
			seen[key] = len(indexed)
			indexed = append(indexed, entry{key: key, value: value})
		} else {
			seen[key] = -len(named) - 1
			named = append(named, entry{key: key, value: value})
		}
	}

	sort.SliceStable(indexed, func(i, j int) bool {
		a, _ := strconv.ParseUint(indexed[i].key, 10, 32)
		b, _ := strconv.ParseUint(indexed[j].key, 10, 32)
		return a < b
	})
	return append(indexed, named...), nil
}

// isArrayIndex 는 key 가 0 이상 2^32-2 이하 정수의 표준 표기인지 검사한다.
func isArrayIndex(key string) bool {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	return err == nil && n < 1<<32-1
}
