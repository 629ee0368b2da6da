package api

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"resumeStudio/internal/api/middleware"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/templatedoc"
)

const handoffKeyPrefix = "template:handoff:"

var errHandoffNotFound = errors.New("handoff not found")

type handoffStore interface {
	Put(ctx context.Context, token string, document []byte, ttl time.Duration) error
	// Take 读取并删除令牌对应的文档；令牌只能使用一次。
	Take(ctx context.Context, token string) ([]byte, error)
}

type redisKV interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisHandoffStore struct {
	client redisKV
}

// newRedisHandoffStore 返回基于 Redis 的 handoff 存储。
func newRedisHandoffStore(client redisKV) *redisHandoffStore {
	return &redisHandoffStore{client: client}
}

func (s *redisHandoffStore) Put(ctx context.Context, token string, document []byte, ttl time.Duration) error {
	return s.client.Set(ctx, handoffKeyPrefix+token, document, ttl).Err()
}

func (s *redisHandoffStore) Take(ctx context.Context, token string) ([]byte, error) {
	data, err := s.client.GetDel(ctx, handoffKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errHandoffNotFound
		}
		return nil, fmt.Errorf("getdel handoff: %w", err)
	}
	return data, nil
}

// HandoffHandler 在页面之间传递模板文档：提交方拿到一次性令牌，接收方凭令牌导入。
type HandoffHandler struct {
	store           handoffStore
	ttl             time.Duration
	defaultTemplate string
}

// NewHandoffHandler 返回 HandoffHandler。
func NewHandoffHandler(store handoffStore, ttl time.Duration, defaultTemplate string) *HandoffHandler {
	return &HandoffHandler{store: store, ttl: ttl, defaultTemplate: defaultTemplate}
}

// POST /v1/handoffs
func (h *HandoffHandler) CreateHandoff(c *gin.Context) {
	body, raw, ok := readDocument(c)
	if !ok {
		return
	}
	if obj, isObj := raw.(map[string]any); !isObj || !templatedoc.IsLegacy(obj) {
		if errs := templatedoc.Validate(raw); len(errs) > 0 {
			InvalidDocument(c, errs)
			return
		}
	}

	token := uuid.NewString()
	if err := h.store.Put(c.Request.Context(), token, body, h.ttl); err != nil {
		middleware.LoggerFromContext(c).Error("store handoff failed", slog.Any("error", err))
		Internal(c, "failed to create handoff")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "expiresIn": int(h.ttl.Seconds())})
}

// GET /v1/handoffs/:token
func (h *HandoffHandler) ConsumeHandoff(c *gin.Context) {
	token := c.Param("token")
	if uuid.Validate(token) != nil {
		NotFound(c, "handoff not found")
		return
	}

	log := middleware.LoggerFromContext(c)
	data, err := h.store.Take(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, errHandoffNotFound) {
			NotFound(c, "handoff not found")
			return
		}
		log.Error("take handoff failed", slog.Any("error", err))
		Internal(c, "failed to load handoff")
		return
	}

	base := layout.DefaultStyles(layout.ParseTemplateID(cmp.Or(c.Query("templateId"), h.defaultTemplate)))
	res, errs, err := templatedoc.Import(data, base)
	if err != nil {
		log.Error("import handoff failed", slog.Any("error", err))
		Internal(c, "failed to load handoff")
		return
	}
	if len(errs) > 0 {
		InvalidDocument(c, errs)
		return
	}
	c.JSON(http.StatusOK, res)
}
