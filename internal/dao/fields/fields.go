package fields

const (
	FieldObjectId  = "_id"
	FieldCreatedAt = "created_at"
	FieldCreatedBy = "created_by"
	FieldUpdatedAt = "updated_at"

	FieldClientName    = "name"
	FieldClientPhone   = "phone"
	FieldClientAddress = "address"
	FieldClientAmount  = "amount"
	FieldClientDeposit = "deposit"
	FieldClientBalance = "balance"

	FieldBillClient      = "client"
	FieldBillAmount      = "amount"
	FieldBillPaidAmount  = "paid_amount"
	FieldBillIsPaid      = "is_paid"
	FieldBillNotes       = "notes"
	FieldBillDescription = "description"
	FieldBillDate        = "bill_date"

	FieldPaymentBill   = "bill"
	FieldPaymentClient = "client"
	FieldPaymentMethod = "payment_method"

	FieldTransactionClient = "client"
	FieldTransactionType   = "type"
	FieldTransactionBill   = "bill"
	FieldTransactionDate   = "date"

	FieldOrderRefOrderID     = "order_id"
	FieldOrderRefBill        = "bill"
	FieldOrderRefFinalAmount = "final_amount"
)
