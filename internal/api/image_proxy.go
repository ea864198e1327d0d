package api

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

const (
	imageProxyTimeout  = 15 * time.Second
	imageProxyMaxBytes = 8 << 20
)

// imageProxy fetches vendor "similar images" on behalf of the mobile
// client, which cannot load them directly because of CORS and
// mixed-content restrictions.
type imageProxy struct {
	http         *resty.Client
	allowedHosts []string
}

func newImageProxy(allowedHosts []string) *imageProxy {
	hosts := make([]string, 0, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts = append(hosts, host)
		}
	}

	return &imageProxy{
		http:         resty.New().SetTimeout(imageProxyTimeout),
		allowedHosts: hosts,
	}
}

// hostAllowed matches a host against the allowlist, including subdomains.
// An empty allowlist permits any host; the URL scheme check still applies.
func (proxy *imageProxy) hostAllowed(host string) bool {
	if len(proxy.allowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, allowed := range proxy.allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (handler *Handler) ProxyImage(c *fiber.Ctx) error {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		return apiError(c, fiber.StatusBadRequest, "url query parameter is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return apiError(c, fiber.StatusBadRequest, "invalid image url")
	}
	if !handler.imageProxy.hostAllowed(parsed.Hostname()) {
		return apiError(c, fiber.StatusForbidden, "image host not allowed")
	}

	response, err := handler.imageProxy.http.R().
		SetContext(c.UserContext()).
		Get(parsed.String())
	if err != nil {
		return apiError(c, fiber.StatusBadGateway, "failed to fetch image")
	}
	if response.IsError() {
		return apiError(c, fiber.StatusBadGateway, "image source returned an error")
	}

	body := response.Body()
	if len(body) == 0 || len(body) > imageProxyMaxBytes {
		return apiError(c, fiber.StatusBadGateway, "image is empty or too large")
	}

	contentType := response.Header().Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return apiError(c, fiber.StatusBadGateway, "source did not return an image")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(body)
}
