package service

import (
	"fmt"
	"strings"

	"github.com/set-night/erpchat/internal/domain"
)

// The guardrail text below reaches the model verbatim.

const financePrompt = `Bạn là trợ lý kế toán – tài chính cho hệ thống ERP doanh nghiệp.

⚠️ QUY TẮC BẮT BUỘC:
- DỮ LIỆU ERP bên dưới là CHÍNH XÁC TUYỆT ĐỐI
- KHÔNG được suy diễn
- KHÔNG thêm hoặc bớt thông tin
- KHÔNG làm tròn số
- KHÔNG dự đoán tương lai
- KHÔNG đưa ra lời khuyên tài chính
- CHỈ diễn đạt lại dữ liệu có sẵn
%s
CÂU HỎI NGƯỜI DÙNG:
%s

DỮ LIỆU FINANCE (JSON):
%s

YÊU CẦU TRẢ LỜI:
- Ngắn gọn, rõ ràng
- Trung lập, đúng thuật ngữ kế toán
- Nếu không có dữ liệu, nói rõ "Không có dữ liệu"
- Không quá 3 câu
`

// Shared by HRM and Sales-CRM.
const controlledPrompt = `Bạn là trợ lý ERP doanh nghiệp.

⚠️ QUY TẮC BẮT BUỘC:
- DỮ LIỆU ERP bên dưới là SỰ THẬT TUYỆT ĐỐI
- KHÔNG được suy diễn
- KHÔNG thêm thông tin
- KHÔNG thay đổi ý nghĩa
- KHÔNG dự đoán tương lai
- CHỈ diễn đạt lại bằng tiếng Việt dễ hiểu
%s
CÂU HỎI NGƯỜI DÙNG:
%s

DỮ LIỆU ERP (JSON):
%s

YÊU CẦU TRẢ LỜI:
- 1–3 câu
- Ngắn gọn, rõ ràng
- Trung lập, không cảm xúc
`

const supplyChainPrompt = `Bạn là trợ lý ERP doanh nghiệp, chuyên mảng Supply Chain.

⚠️ QUY TẮC BẮT BUỘC:
- DỮ LIỆU ERP là SỰ THẬT TUYỆT ĐỐI
- KHÔNG suy luận
- KHÔNG gộp trạng thái
- KHÔNG diễn giải ngoài dữ liệu

⚠️ QUY ƯỚC NGHIỆP VỤ (CỰC KỲ QUAN TRỌNG):
- Chỉ được nói "sắp hết hàng" nếu sản phẩm nằm trong danh sách "low_stock"
- "dead_stock" = lâu không xuất, KHÔNG PHẢI sắp hết
- Nếu quantity > 0 và không nằm trong "low_stock" → KHÔNG được nói sắp hết
- Nếu không có dữ liệu → nói rõ "chưa có dữ liệu"
%s
CÂU HỎI:
%s

DỮ LIỆU ERP (JSON):
%s

YÊU CẦU:
- 1–3 câu
- Tiếng Việt chuẩn nghiệp vụ ERP
`

const ragPrompt = `Bạn là trợ lý tư vấn ERP.

LỊCH SỬ:
%s

TÀI LIỆU:
%s

CÂU HỎI:
%s

Trả lời bằng tiếng Việt.`

const chatPrompt = `Bạn là một trợ lý AI hữu ích. Nhiệm vụ của bạn là trả lời câu hỏi của người dùng.

%s
Dưới đây là một số NGỮ CẢNH (context) liên quan đến câu hỏi MỚI NHẤT của người dùng.
Hãy dùng chúng để trả lời nếu chúng liên quan.

NGỮ CẢNH:
%s

CÂU HỎI MỚI NHẤT:
%s

HƯỚNG DẪN:
1. Trả lời câu hỏi MỚI NHẤT.
2. Sử dụng LỊCH SỬ TRÒ CHUYỆN để hiểu các tham chiếu (ví dụ: "nó", "anh ấy", "vấn đề đó").
3. Chỉ trả lời dựa vào NGỮ CẢNH nếu câu hỏi yêu cầu thông tin từ tài liệu.
4. Nếu NGỮ CẢNH không chứa thông tin, hãy nói "Tôi không tìm thấy thông tin này trong tài liệu."
5. Trả lời bằng tiếng Việt.

TRẢ LỜI:
`

// DomainPrompt asks the model to restate ERP data for one domain. Recent
// turns, when present, go into a LỊCH SỬ block ahead of the question.
func DomainPrompt(d domain.Domain, question string, data domain.Result, history []domain.Turn) string {
	tmpl := controlledPrompt
	switch d {
	case domain.DomainFinance:
		tmpl = financePrompt
	case domain.DomainSupplyChain:
		tmpl = supplyChainPrompt
	}
	return fmt.Sprintf(tmpl, domainHistory(history), question, data.Pretty())
}

func domainHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nLỊCH SỬ:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "user: %s\nassistant: %s\n", t.Question, t.Answer)
	}
	return b.String()
}

// RAGPrompt is the plain document prompt: history as question and answer
// lines, passages separated by blank lines.
func RAGPrompt(question string, passages []string, history []domain.Turn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, t.Question+"\n"+t.Answer)
	}
	return fmt.Sprintf(ragPrompt, strings.Join(lines, "\n"), strings.Join(passages, "\n\n"), question)
}

// ChatPrompt is the conversational document prompt with role-tagged history.
func ChatPrompt(question string, passages []string, history []domain.Turn) string {
	var hist strings.Builder
	if len(history) > 0 {
		hist.WriteString("Dưới đây là lịch sử trò chuyện gần đây:\n")
		for _, t := range history {
			fmt.Fprintf(&hist, "user: %s\nassistant: %s\n", t.Question, t.Answer)
		}
		hist.WriteString("\n")
	}
	return fmt.Sprintf(chatPrompt, hist.String(), strings.Join(passages, "\n\n---\n\n"), question)
}
