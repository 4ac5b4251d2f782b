package oci

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/ons"

	"github.com/antounmoubarak/fsdr-precheck/internal/notify"
	"github.com/antounmoubarak/fsdr-precheck/internal/util"
)

// Publisher publishes messages to Notifications topics in the topic's home region.
type Publisher struct {
	provider  common.ConfigurationProvider
	newCaller func(region string) caller
}

// Publish sends msg to topicID.
func (p *Publisher) Publish(ctx context.Context, topicID string, msg notify.Message) error {
	region, err := util.RegionFromOCID(topicID)
	if err != nil {
		return err
	}

	client, err := ons.NewNotificationDataPlaneClientWithConfigurationProvider(p.provider)
	if err != nil {
		return fmt.Errorf("failed to create notification client: %w", err)
	}
	client.SetRegion(region)

	return p.newCaller(region).call(ctx, "PublishMessage", func() error {
		_, err := client.PublishMessage(ctx, ons.PublishMessageRequest{
			TopicId: common.String(topicID),
			MessageDetails: ons.MessageDetails{
				Title: common.String(msg.Title),
				Body:  common.String(msg.Body),
			},
			RequestMetadata: common.RequestMetadata{RetryPolicy: retryPolicy()},
		})
		return err
	})
}
