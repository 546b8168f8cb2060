// Package i18n builds the bilingual human-readable texts the webhook
// returns with every outcome, success or failure, so the calling
// automation can relay them verbatim.
package i18n

import "fmt"

type Text struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

func pair(en, ar string) Text { return Text{EN: en, AR: ar} }

// --- success texts ---

func StaffAdvanceCreated(name, amount string) Text {
	return pair(
		fmt.Sprintf("Recorded an advance of %s for %s.", amount, name),
		fmt.Sprintf("تم تسجيل سلفة بمبلغ %s للموظف %s.", amount, name),
	)
}

func StaffAdvanceUpdated(name, amount string) Text {
	return pair(
		fmt.Sprintf("Updated %s's advance to %s.", name, amount),
		fmt.Sprintf("تم تعديل سلفة %s لتصبح %s.", name, amount),
	)
}

func StaffAdvanceDeleted(name, amount string) Text {
	return pair(
		fmt.Sprintf("Deleted the advance of %s for %s.", amount, name),
		fmt.Sprintf("تم حذف سلفة بمبلغ %s للموظف %s.", amount, name),
	)
}

func PMAdvanceCreated(name, amount string) Text {
	return pair(
		fmt.Sprintf("Issued a PM advance of %s to %s.", amount, name),
		fmt.Sprintf("تم صرف عهدة بمبلغ %s للمسؤول %s.", amount, name),
	)
}

func NoteConverted(invoiceNumber, amount string) Text {
	return pair(
		fmt.Sprintf("Note converted: claim invoice %s issued for %s.", invoiceNumber, amount),
		fmt.Sprintf("تم ترحيل الملاحظة وإصدار فاتورة مطالبة %s بمبلغ %s.", invoiceNumber, amount),
	)
}

func InvoicePaid(number, amount, remaining string, fullyPaid bool) Text {
	if fullyPaid {
		return pair(
			fmt.Sprintf("Invoice %s fully paid (payment %s).", number, amount),
			fmt.Sprintf("تم سداد الفاتورة %s بالكامل (دفعة %s).", number, amount),
		)
	}
	return pair(
		fmt.Sprintf("Payment of %s recorded on invoice %s; remaining %s.", amount, number, remaining),
		fmt.Sprintf("تم تسجيل دفعة %s على الفاتورة %s والمتبقي %s.", amount, number, remaining),
	)
}

func PayrollCreated(month string, staffCount int, totalNet string) Text {
	return pair(
		fmt.Sprintf("Payroll for %s created with %d staff, net total %s.", month, staffCount, totalNet),
		fmt.Sprintf("تم إنشاء مسير رواتب شهر %s لعدد %d موظف بصافي %s.", month, staffCount, totalNet),
	)
}

func PayrollPaid(month string, deductedAdvances int) Text {
	return pair(
		fmt.Sprintf("Payroll for %s paid; %d pending advances deducted.", month, deductedAdvances),
		fmt.Sprintf("تم صرف مسير رواتب شهر %s وخصم %d سلفة معلقة.", month, deductedAdvances),
	)
}

func SearchResults(count int) Text {
	if count == 0 {
		return pair("No results matched your search.", "لا توجد نتائج مطابقة لبحثك.")
	}
	return pair(
		fmt.Sprintf("Found %d matching records.", count),
		fmt.Sprintf("تم العثور على %d سجل مطابق.", count),
	)
}

// --- error texts ---

func UnknownAction(action string) Text {
	return pair(
		fmt.Sprintf("Unknown action %q.", action),
		fmt.Sprintf("إجراء غير معروف: %s.", action),
	)
}

func CallerNotRecognized() Text {
	return pair(
		"Your phone number is not registered as an accountant.",
		"رقم هاتفك غير مسجل كمحاسب.",
	)
}

func Forbidden() Text {
	return pair(
		"You are not allowed to run accounting actions.",
		"غير مصرح لك بتنفيذ إجراءات محاسبية.",
	)
}

func InvalidPayload() Text {
	return pair("The request payload is invalid.", "بيانات الطلب غير صالحة.")
}

func InvalidAmount() Text {
	return pair("The amount must be a positive number.", "يجب أن يكون المبلغ رقمًا موجبًا.")
}

func InvalidMonth(month string) Text {
	return pair(
		fmt.Sprintf("Invalid payroll month %q, expected YYYY-MM.", month),
		fmt.Sprintf("شهر غير صالح %s، الصيغة المطلوبة YYYY-MM.", month),
	)
}

func StaffNotFound(query string) Text {
	return pair(
		fmt.Sprintf("No staff member matched %q.", query),
		fmt.Sprintf("لم يتم العثور على موظف يطابق \"%s\".", query),
	)
}

func AmbiguousStaff(count int) Text {
	return pair(
		fmt.Sprintf("%d staff members matched; please pick one.", count),
		fmt.Sprintf("تطابق %d موظفين مع البحث، يرجى تحديد المقصود.", count),
	)
}

func EntityNotFound(entity string) Text {
	switch entity {
	case "unit":
		return pair("Unit not found.", "الوحدة غير موجودة.")
	case "project":
		return pair("Project not found.", "المشروع غير موجود.")
	case "invoice":
		return pair("Invoice not found.", "الفاتورة غير موجودة.")
	case "note":
		return pair("Accounting note not found.", "الملاحظة المحاسبية غير موجودة.")
	case "advance":
		return pair("Advance not found.", "السلفة غير موجودة.")
	case "pm_advance":
		return pair("PM advance not found.", "العهدة غير موجودة.")
	case "payroll":
		return pair("Payroll not found.", "مسير الرواتب غير موجود.")
	case "staff":
		return pair("Staff member not found.", "الموظف غير موجود.")
	default:
		return pair("Record not found.", "السجل غير موجود.")
	}
}

func NoteAlreadyConverted() Text {
	return pair(
		"This note was already converted to an invoice.",
		"تم ترحيل هذه الملاحظة إلى فاتورة من قبل.",
	)
}

func NoteRejected() Text {
	return pair(
		"This note was rejected and cannot be converted.",
		"هذه الملاحظة مرفوضة ولا يمكن ترحيلها.",
	)
}

func InvoiceAlreadyPaid(number string) Text {
	return pair(
		fmt.Sprintf("Invoice %s is already fully paid.", number),
		fmt.Sprintf("الفاتورة %s مسددة بالكامل بالفعل.", number),
	)
}

func PaymentExceedsRemaining(remaining string) Text {
	return pair(
		fmt.Sprintf("Payment exceeds the remaining balance of %s.", remaining),
		fmt.Sprintf("الدفعة تتجاوز الرصيد المتبقي %s.", remaining),
	)
}

func NoteUnfunded() Text {
	return pair(
		"The note is marked as PM-advance funded but names no advance.",
		"الملاحظة مسجلة على عهدة لكن لا توجد عهدة مرتبطة بها.",
	)
}

func AdvanceInsufficient() Text {
	return pair(
		"The PM advance balance is insufficient for this note.",
		"رصيد العهدة لا يكفي لترحيل هذه الملاحظة.",
	)
}

func AdvanceNotPending() Text {
	return pair(
		"This advance was already deducted and can no longer change.",
		"تم خصم هذه السلفة بالفعل ولا يمكن تعديلها.",
	)
}

func PayrollMonthTaken(month string) Text {
	return pair(
		fmt.Sprintf("A payroll already exists for %s.", month),
		fmt.Sprintf("يوجد مسير رواتب لشهر %s بالفعل.", month),
	)
}

func PayrollAlreadyPaid(month string) Text {
	return pair(
		fmt.Sprintf("The payroll for %s is already paid.", month),
		fmt.Sprintf("مسير رواتب شهر %s مصروف بالفعل.", month),
	)
}

func NoStaffForPayroll() Text {
	return pair(
		"There is no staff to include in a payroll.",
		"لا يوجد موظفون لإدراجهم في مسير الرواتب.",
	)
}

func Internal() Text {
	return pair(
		"Something went wrong on our side. Nothing was changed.",
		"حدث خطأ لدينا ولم يتم تغيير أي بيانات.",
	)
}
