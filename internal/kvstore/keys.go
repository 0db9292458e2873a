package kvstore

// Persisted key names shared by every feature. The presence, passcode and
// chat keys are prefixes; their owning packages complete them with the
// username, email or sorted participant pair.
const (
	KeyUsers          = "neonUsers"
	KeyCurrentUser    = "currentUser"
	KeyCurrentProfile = "currentUserProfile"
	KeyAuthToken      = "authToken"
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyCompareList    = "compareList"
	KeyActivities     = "recentActivities"
	KeySavedContacts  = "savedContacts"
	KeyProductsCache  = "products_cache"
	KeyAIHistory      = "aiChatHistory_v1"

	PrefixPresence = "presence_"
	PrefixPasscode = "otp_"
	PrefixChat     = "chat_"
)
