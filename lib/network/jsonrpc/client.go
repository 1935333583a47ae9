package jsonrpc

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	rpcjson "github.com/gorilla/rpc/json"
	logging "github.com/inconshreveable/log15"
	pkgerrors "github.com/pkg/errors"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

const DefaultTimeout = 10 * time.Second

// Client calls the "Raffle" service of a remote node. It can drive a keeper
// and receive the words of a coordinator in place of a local engine; the
// words are signed with the key set by `SignWith`.
type Client struct {
	url    string
	client *common.HTTP2Client
	logger logging.Logger
	signer *keypair.Full
}

func NewClient(endpoint *common.Endpoint, retry *common.RetrySetting, logger logging.Logger) (*Client, error) {
	client, err := common.NewHTTP2Client(DefaultTimeout, retry)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = common.NopLogger()
	}

	u := endpoint.String()
	if len(endpoint.Path) < 1 || endpoint.Path == "/" {
		u = endpoint.Join(DefaultPath)
	}

	return &Client{
		url:    u,
		client: client,
		logger: logger,
	}, nil
}

// SignWith sets the coordinator key signing the fulfillments.
func (c *Client) SignWith(kp *keypair.Full) *Client {
	c.signer = kp
	return c
}

func (c *Client) call(ctx context.Context, method string, args, result interface{}) error {
	message, err := rpcjson.EncodeClientRequest(method, args)
	if err != nil {
		return err
	}

	resp, err := c.client.PostJSON(ctx, c.url, message)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to call %s", method)
	}
	defer resp.Body.Close()

	if err := rpcjson.DecodeClientResponse(resp.Body, result); err != nil {
		return decodeError(err)
	}

	return nil
}

// decodeError restores the `*errors.Error` sent by the server, which is
// carried as its json form.
func decodeError(err error) error {
	var e errors.Error
	if json.Unmarshal([]byte(err.Error()), &e) != nil || e.Code < 1 {
		return err
	}

	return &e
}

// CheckUpkeep reports false when the node can not be reached.
func (c *Client) CheckUpkeep() (bool, []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	var result CheckUpkeepResult
	if err := c.call(ctx, "Raffle.CheckUpkeep", &CheckUpkeepArgs{}, &result); err != nil {
		c.logger.Error("failed to check upkeep", "url", c.url, "error", err)
		return false, nil
	}

	return result.UpkeepNeeded, result.PerformData
}

func (c *Client) PerformUpkeep(ctx context.Context, proof []byte) (raffle.RequestID, error) {
	var result PerformUpkeepResult
	if err := c.call(ctx, "Raffle.PerformUpkeep", &PerformUpkeepArgs{Proof: proof}, &result); err != nil {
		return 0, err
	}

	return result.RequestID, nil
}

func (c *Client) FulfillRandomness(id raffle.RequestID, words []*big.Int) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	args := &FulfillRandomnessArgs{RequestID: id, RandomWords: raffle.FormatWords(words)}
	if c.signer != nil {
		signature, err := raffle.SignFulfillment(c.signer, id, words)
		if err != nil {
			return err
		}
		args.Signature = signature
	}

	var result FulfillRandomnessResult
	return c.call(ctx, "Raffle.FulfillRandomness", args, &result)
}

func (c *Client) State(ctx context.Context) (*raffle.Round, error) {
	var result StateResult
	if err := c.call(ctx, "Raffle.State", &StateArgs{}, &result); err != nil {
		return nil, err
	}

	round := raffle.Round(result)
	return &round, nil
}

func (c *Client) Close() {
	c.client.Close()
}
