package services

import (
	"chat-relay/errors"
	"chat-relay/infrastructure/social"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type ISocialService interface {
	Publish(ctx context.Context, request social.PostRequest) (social.Post, error)
	Feed(ctx context.Context, sort string, limit int) ([]social.Post, error)
	Reply(ctx context.Context, postID, content string) (social.Comment, error)
}

type SocialService struct {
	log    *slog.Logger
	client *social.Client
}

func NewSocialService(log *slog.Logger, client *social.Client) *SocialService {
	return &SocialService{log: log, client: client}
}

func (s *SocialService) Publish(ctx context.Context, request social.PostRequest) (social.Post, error) {
	if err := validate.Struct(request); err != nil {
		return social.Post{}, fmt.Errorf("invalid post: %w", err)
	}
	post, err := s.client.Post(ctx, request)
	if err != nil {
		s.log.Error("Failed to publish post", "title", request.Title, "error", err)
		return social.Post{}, err
	}
	s.log.Info("Post published", "id", post.ID)
	return post, nil
}

func (s *SocialService) Feed(ctx context.Context, sort string, limit int) ([]social.Post, error) {
	switch sort {
	case "", "hot", "new", "top":
	default:
		return nil, fmt.Errorf("unknown sort %q: %w", sort, errors.ErrInvalidPayload)
	}
	return s.client.Browse(ctx, sort, limit)
}

func (s *SocialService) Reply(ctx context.Context, postID, content string) (social.Comment, error) {
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(content) == "" {
		return social.Comment{}, fmt.Errorf("post id and content are required: %w", errors.ErrInvalidPayload)
	}
	return s.client.Comment(ctx, postID, content)
}
