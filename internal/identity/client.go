package identity

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/pkg/logger"
)

const (
	soapAction = "http://tckimlik.nvi.gov.tr/WS/TCKimlikNoDogrula"
	namespace  = "http://tckimlik.nvi.gov.tr/WS"

	MessageVerified = "Identity number verified successfully"
	MessageRejected = "Identity verification failed - Information does not match official records"
)

var (
	ErrTimeout            = errors.New("identity service timeout")
	ErrServiceUnavailable = errors.New("identity service unavailable")
	ErrNetwork            = errors.New("identity service network error")
)

var resultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<TCKimlikNoDogrulaResult>([^<]+)</TCKimlikNoDogrulaResult>`),
	regexp.MustCompile(`(?i)<ws:TCKimlikNoDogrulaResult[^>]*>([^<]+)</ws:TCKimlikNoDogrulaResult>`),
}

type CheckRequest struct {
	IdentityNumber string
	FirstName      string
	LastName       string
	YearOfBirth    int
}

type Result struct {
	Verified bool
	Message  string
}

type Verifier interface {
	Verify(ctx context.Context, req CheckRequest) (*Result, error)
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(cfg config.IdentityConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type envelope struct {
	XMLName xml.Name `xml:"soap12:Envelope"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	XSD     string   `xml:"xmlns:xsd,attr"`
	Soap12  string   `xml:"xmlns:soap12,attr"`
	Body    struct {
		Request verifyRequest `xml:"TCKimlikNoDogrula"`
	} `xml:"soap12:Body"`
}

type verifyRequest struct {
	XMLName    xml.Name `xml:"http://tckimlik.nvi.gov.tr/WS TCKimlikNoDogrula"`
	TCKimlikNo string   `xml:"TCKimlikNo"`
	Ad         string   `xml:"Ad"`
	Soyad      string   `xml:"Soyad"`
	DogumYili  int      `xml:"DogumYili"`
}

func buildEnvelope(req CheckRequest) ([]byte, error) {
	env := envelope{
		XSI:    "http://www.w3.org/2001/XMLSchema-instance",
		XSD:    "http://www.w3.org/2001/XMLSchema",
		Soap12: "http://www.w3.org/2003/05/soap-envelope",
	}
	env.Body.Request = verifyRequest{
		TCKimlikNo: req.IdentityNumber,
		Ad:         strings.ToUpperSpecial(unicode.TurkishCase, strings.TrimSpace(req.FirstName)),
		Soyad:      strings.ToUpperSpecial(unicode.TurkishCase, strings.TrimSpace(req.LastName)),
		DogumYili:  req.YearOfBirth,
	}

	out, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), out...), nil
}

// parseResult returns true only when the service answered with a literal true.
func parseResult(body []byte) bool {
	for _, p := range resultPatterns {
		m := p.FindSubmatch(body)
		if m == nil {
			continue
		}
		v, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(string(m[1]))))
		return err == nil && v
	}

	return false
}

// Verify checks the identity against the KPS public service.
func (c *Client) Verify(ctx context.Context, req CheckRequest) (*Result, error) {
	payload, err := buildEnvelope(req)
	if err != nil {
		return nil, errors.Wrap(err, "build soap envelope")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", soapAction)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(ErrTimeout, err.Error())
		}
		return nil, errors.Wrap(ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrServiceUnavailable, "status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(ErrTimeout, err.Error())
		}
		return nil, errors.Wrap(ErrNetwork, err.Error())
	}

	if !parseResult(body) {
		logger.Debug("identity not verified", zap.String("identity_number_suffix", suffix(req.IdentityNumber)))
		return &Result{Verified: false, Message: MessageRejected}, nil
	}

	return &Result{Verified: true, Message: MessageVerified}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func suffix(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}
