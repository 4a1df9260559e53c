package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Total chat messages persisted.",
	})

	TranslationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_translation_cache_hits_total",
		Help: "Translation cache hits.",
	})

	TranslationCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_translation_cache_misses_total",
		Help: "Translation cache misses.",
	})

	TranslationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_translation_failures_total",
		Help: "Messages delivered untranslated after a translation failure.",
	})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_notifications_emitted_total",
		Help: "Chat notifications emitted to the notification topic.",
	})

	DeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_delivery_failures_total",
		Help: "Post-persistence delivery failures by strategy.",
	}, []string{"strategy"})
)
