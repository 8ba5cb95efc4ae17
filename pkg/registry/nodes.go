// Package registry provides node factory registration for the built-in node set.
package registry

import (
	"github.com/graphion-dev/graphion/pkg/nodes/conditional"
	"github.com/graphion-dev/graphion/pkg/nodes/httprequest"
	"github.com/graphion-dev/graphion/pkg/nodes/log"
	"github.com/graphion-dev/graphion/pkg/nodes/merge"
	switchnode "github.com/graphion-dev/graphion/pkg/nodes/switch"
	"github.com/graphion-dev/graphion/pkg/nodes/transform"
	"github.com/graphion-dev/graphion/pkg/nodes/trigger"
	"github.com/graphion-dev/graphion/pkg/nodes/variable"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterNode(httprequest.NewHTTPRequestNodeFactory())
	r.RegisterNode(transform.NewTransformNodeFactory())
	r.RegisterNode(log.NewLogNodeFactory())
	r.RegisterNode(variable.NewVariableNodeFactory())

	r.RegisterNode(conditional.NewConditionalNodeFactory())
	r.RegisterNode(switchnode.NewSwitchNodeFactory())
	r.RegisterNode(merge.NewMergeNodeFactory())

	r.RegisterNode(trigger.NewManualTriggerNodeFactory())
	r.RegisterNode(trigger.NewWebhookTriggerNodeFactory())
	r.RegisterNode(trigger.NewScheduleTriggerNodeFactory())
}
