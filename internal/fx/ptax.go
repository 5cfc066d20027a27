package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPTAXBaseURL is the Banco Central do Brasil OData service root.
	DefaultPTAXBaseURL = "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata"
	// DefaultTimeout bounds every quote request.
	DefaultTimeout = 10 * time.Second
)

// RateProvider returns the USD/BRL sell rate published for a single day.
// ok is false when the day has no quote (weekends, holidays). A non-nil
// error means the service could not be reached.
type RateProvider interface {
	Quote(ctx context.Context, day time.Time) (rate float64, ok bool, err error)
}

// PTAXClient queries the PTAX "CotacaoDolarDia" endpoint.
type PTAXClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewPTAXClient returns a client for baseURL with the given per-request
// timeout. Empty or zero values fall back to the defaults.
func NewPTAXClient(baseURL string, timeout time.Duration) *PTAXClient {
	if baseURL == "" {
		baseURL = DefaultPTAXBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PTAXClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type ptaxResponse struct {
	Value []struct {
		CotacaoCompra   float64 `json:"cotacaoCompra"`
		CotacaoVenda    float64 `json:"cotacaoVenda"`
		DataHoraCotacao string  `json:"dataHoraCotacao"`
	} `json:"value"`
}

// quoteURL builds the request URL; the service expects the date as MM-DD-YYYY.
func (c *PTAXClient) quoteURL(day time.Time) string {
	return fmt.Sprintf(
		"%s/CotacaoDolarDia(dataCotacao=@dataCotacao)?@dataCotacao='%s'&$top=100&$format=json",
		c.BaseURL, day.Format("01-02-2006"),
	)
}

// Quote fetches the closing sell rate for day. The last entry of the
// returned list is the closing bulletin. Non-2xx responses and bodies that
// do not decode count as "no quote", not as errors.
func (c *PTAXClient) Quote(ctx context.Context, day time.Time) (float64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quoteURL(day), nil)
	if err != nil {
		return 0, false, fmt.Errorf("building PTAX request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("fetching PTAX quote for %s: %w", day.Format("2006-01-02"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return 0, false, nil
	}

	var body ptaxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, nil
	}
	if len(body.Value) == 0 {
		return 0, false, nil
	}
	return body.Value[len(body.Value)-1].CotacaoVenda, true, nil
}
