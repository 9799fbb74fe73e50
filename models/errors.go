package models

import "errors"

// Các loại lỗi nghiệp vụ; controller ánh xạ sang HTTP status.
var (
	ErrInvalidEmail       = errors.New("email không hợp lệ")
	ErrInvalidCode        = errors.New("mã truy cập không hợp lệ")
	ErrAccessDenied       = errors.New("không có quyền truy cập sự kiện")
	ErrRSVPNotFound       = errors.New("không tìm thấy RSVP")
	ErrInvalidName        = errors.New("tên phải có ít nhất 2 ký tự")
	ErrAttendingUnset     = errors.New("chưa chọn trạng thái tham dự")
	ErrBackendUnavailable = errors.New("không thể ghi dữ liệu, vui lòng thử lại")
	ErrSessionExpired     = errors.New("phiên đăng nhập đã hết hạn")
)
