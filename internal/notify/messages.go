package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys raised by the cart.
const (
	KeyLoginRequired = "cart.login_required"
	KeyAdded         = "cart.added"
	KeyAddFailed     = "cart.add_failed"
	KeyRemoved       = "cart.removed"
	KeyRemoveFailed  = "cart.remove_failed"
	KeyUpdateFailed  = "cart.update_failed"
	KeyCleared       = "cart.cleared"
	KeyClearPartial  = "cart.clear_partial"
	KeyLoadFailed    = "cart.load_failed"
	KeyInvalidItem   = "cart.invalid_item"
)

var matcher = language.NewMatcher([]language.Tag{language.Vietnamese, language.English})

func init() {
	vi := language.Vietnamese
	message.SetString(vi, KeyLoginRequired, "Vui lòng đăng nhập để thêm sản phẩm vào giỏ hàng")
	message.SetString(vi, KeyAdded, "Đã thêm %s vào giỏ hàng")
	message.SetString(vi, KeyAddFailed, "Không thể thêm sản phẩm vào giỏ hàng")
	message.SetString(vi, KeyRemoved, "Đã xóa sản phẩm khỏi giỏ hàng")
	message.SetString(vi, KeyRemoveFailed, "Không thể xóa sản phẩm khỏi giỏ hàng")
	message.SetString(vi, KeyUpdateFailed, "Không thể cập nhật số lượng")
	message.SetString(vi, KeyCleared, "Đã xóa toàn bộ giỏ hàng")
	message.SetString(vi, KeyClearPartial, "Đã xóa giỏ hàng, %d sản phẩm chưa được xóa trên máy chủ")
	message.SetString(vi, KeyLoadFailed, "Không thể tải giỏ hàng")
	message.SetString(vi, KeyInvalidItem, "Sản phẩm không hợp lệ")

	en := language.English
	message.SetString(en, KeyLoginRequired, "Please log in to add items to your cart")
	message.SetString(en, KeyAdded, "Added %s to your cart")
	message.SetString(en, KeyAddFailed, "Could not add the item to your cart")
	message.SetString(en, KeyRemoved, "Item removed from your cart")
	message.SetString(en, KeyRemoveFailed, "Could not remove the item from your cart")
	message.SetString(en, KeyUpdateFailed, "Could not update the quantity")
	message.SetString(en, KeyCleared, "Your cart has been cleared")
	message.SetString(en, KeyClearPartial, "Cart cleared, %d items could not be removed on the server")
	message.SetString(en, KeyLoadFailed, "Could not load your cart")
	message.SetString(en, KeyInvalidItem, "Invalid product")
}
