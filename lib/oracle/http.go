package oracle

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/sethgrid/pester"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

const (
	CoordinatorRequestsPath = "/coordinator/requests"

	DefaultHTTPTimeout    = 10 * time.Second
	DefaultHTTPMaxRetries = 3
)

var DefaultRetrySetting = &common.RetrySetting{
	MaxRetries:  DefaultHTTPMaxRetries,
	Concurrency: 1,
	Backoff:     pester.ExponentialBackoff,
}

// HTTPCoordinator sends the randomness requests to a remote coordinator. The
// remote coordinator delivers the words by itself, usually to the
// "/raffle/fulfill" of this node.
type HTTPCoordinator struct {
	endpoint *common.Endpoint
	client   *common.HTTP2Client
	logger   logging.Logger
}

func NewHTTPCoordinator(endpoint *common.Endpoint, retry *common.RetrySetting, logger logging.Logger) (*HTTPCoordinator, error) {
	client, err := common.NewHTTP2Client(DefaultHTTPTimeout, retry)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = common.NopLogger()
	}

	return &HTTPCoordinator{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}, nil
}

type requestCreated struct {
	ID raffle.RequestID `json:"id"`
}

func (h *HTTPCoordinator) RequestRandomWords(ctx context.Context, req raffle.RandomnessRequest) (raffle.RequestID, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	u := h.endpoint.Join(CoordinatorRequestsPath)
	resp, err := h.client.PostJSON(ctx, u, body)
	if err != nil {
		h.logger.Error("failed to request randomness", "url", u, "error", err)
		return 0, err
	}
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode >= 300 {
		var p httputils.Problem
		if err := json.Unmarshal(b, &p); err != nil || len(p.Title) < 1 {
			p = httputils.NewDetailedStatusProblem(resp.StatusCode, string(b))
		}
		return 0, p.ToError()
	}

	var created requestCreated
	if err := json.Unmarshal(b, &created); err != nil {
		return 0, errors.Wrap(errors.OracleRequestFailed, err)
	}

	h.logger.Debug("randomness requested", "url", u, "request", created.ID)

	return created.ID, nil
}

func (h *HTTPCoordinator) Close() {
	h.client.Close()
}

var _ raffle.Oracle = (*HTTPCoordinator)(nil)
